package dto

// EstoqueRequest is shared by POST /v1/estoque/:id/entrada and /saida.
type EstoqueRequest struct {
	Quantidade int    `json:"quantidade" validate:"required,gt=0"`
	Motivo     string `json:"motivo"`
}

// EstoqueAtualResponse is the read-only snapshot served by GET /v1/estoque/:id.
type EstoqueAtualResponse struct {
	MedicamentoID     string `json:"medicamento_id"`
	MedicamentoNome   string `json:"medicamento_nome"`
	QuantidadeEstoque int    `json:"quantidade_estoque"`
	EstoqueBaixo      bool   `json:"estoque_baixo"`
}

// EstoqueOperacaoResponse echoes the adjustment outcome.
type EstoqueOperacaoResponse struct {
	Mensagem        string `json:"mensagem"`
	MedicamentoID   string `json:"medicamento_id"`
	MedicamentoNome string `json:"medicamento_nome"`
	Quantidade      int    `json:"quantidade"`
	NovaQuantidade  int    `json:"nova_quantidade"`
	Tipo            string `json:"tipo"`
}

type MovimentacaoResponse struct {
	ID            string `json:"id"`
	MedicamentoID string `json:"medicamento_id"`
	Tipo          string `json:"tipo"`
	Quantidade    int    `json:"quantidade"`
	EstoqueTotal  int    `json:"estoque_total"`
	Motivo        string `json:"motivo"`
	Data          string `json:"data"`
}

type MovimentacaoListResponse struct {
	Data  []MovimentacaoResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
