package dto

type AlertaResponse struct {
	ID              string `json:"id"`
	MedicamentoID   string `json:"medicamento_id"`
	MedicamentoNome string `json:"medicamento_nome"`
	Tipo            string `json:"tipo"`
	Mensagem        string `json:"mensagem"`
	Lido            bool   `json:"lido"`
	CreatedAt       string `json:"created_at"`
}
