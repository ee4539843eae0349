package dto

// LogFilter is bound from query string of GET /v1/logs.
type LogFilter struct {
	TipoOperacao string `form:"tipo_operacao" validate:"omitempty,oneof=CREATE UPDATE DELETE LOGIN"`
	TipoEntidade string `form:"tipo_entidade"`
	Page         int    `form:"page,default=1"    validate:"min=1"`
	Limit        int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type LogResponse struct {
	ID           string  `json:"id"`
	TipoOperacao string  `json:"tipo_operacao"`
	TipoEntidade string  `json:"tipo_entidade"`
	EntidadeID   *string `json:"entidade_id"`
	Descricao    string  `json:"descricao"`
	Detalhes     *string `json:"detalhes"`
	UsuarioNome  string  `json:"usuario_nome"`
	CreatedAt    string  `json:"created_at"`
}

type LogListResponse struct {
	Data  []LogResponse `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
