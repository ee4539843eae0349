package handler

import (
	"net/http"
	"strconv"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/repository"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// Entrada godoc
// @Summary Entrada de estoque
// @Description Soma unidades ao estoque e registra a movimentação na mesma transação.
// @Tags estoque
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID do medicamento"
// @Param body body dto.EstoqueRequest true "Quantidade e motivo"
// @Success 200 {object} dto.EstoqueOperacaoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/estoque/{id}/entrada [post]
func (h *EstoqueHandler) Entrada(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Entrada(c.Request.Context(), atorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saida godoc
// @Summary Saída de estoque
// @Description Remove unidades do estoque; falha com 422 quando não há saldo.
// @Tags estoque
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID do medicamento"
// @Param body body dto.EstoqueRequest true "Quantidade e motivo"
// @Success 200 {object} dto.EstoqueOperacaoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/estoque/{id}/saida [post]
func (h *EstoqueHandler) Saida(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Saida(c.Request.Context(), atorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Consultar godoc
// @Summary Estoque atual de um medicamento
// @Tags estoque
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID do medicamento"
// @Success 200 {object} dto.EstoqueAtualResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/estoque/{id} [get]
func (h *EstoqueHandler) Consultar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Consultar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimentacoes lists the stock ledger, optionally filtered by medicine.
func (h *EstoqueHandler) Movimentacoes(c *gin.Context) {
	filter := repository.MovimentacaoFilter{
		Tipo:  c.Query("tipo"),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 100),
	}
	if raw := c.Query("medicamento_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("medicamento_id inválido"))
			return
		}
		filter.MedicamentoID = &id
	}
	resp, err := h.svc.ListMovimentacoes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
