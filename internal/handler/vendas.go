package handler

import (
	"net/http"

	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// Criar godoc
// @Summary Registrar venda
// @Description Valida idade do cliente e cada item; congela preços e desconta o estoque numa única transação.
// @Tags vendas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.VendaCreateRequest true "Itens da venda"
// @Success 201 {object} dto.VendaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/vendas [post]
func (h *VendasHandler) Criar(c *gin.Context) {
	var req dto.VendaCreateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), atorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CriarCancelada registra uma venda já nascida cancelada: só o histórico é
// gravado, nenhum estoque se move.
func (h *VendasHandler) CriarCancelada(c *gin.Context) {
	var req dto.VendaCreateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCancelada(c.Request.Context(), atorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cancelar godoc
// @Summary Cancelar venda
// @Description Cancela uma venda concluída e devolve cada item ao estoque com movimentações de entrada.
// @Tags vendas
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID da venda"
// @Success 200 {object} dto.VendaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/vendas/{id}/cancelar [post]
func (h *VendasHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), atorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) Obter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
