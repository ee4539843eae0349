package handler

import (
	"net/http"

	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

// Listar godoc
// @Summary Listar alertas
// @Description Filtra por ?tipo=estoque-baixo|validade-proxima|vencidos e ?lido=false.
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AlertaResponse
// @Router /v1/alertas [get]
func (h *AlertasHandler) Listar(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		resp interface{}
		err  error
	)
	switch c.Query("tipo") {
	case "estoque-baixo":
		resp, err = h.svc.FindEstoqueBaixo(ctx)
	case "validade-proxima":
		resp, err = h.svc.FindValidadeProxima(ctx)
	case "vencidos":
		resp, err = h.svc.FindValidadeVencida(ctx)
	default:
		if c.Query("lido") == "false" {
			resp, err = h.svc.FindNaoLidos(ctx)
		} else {
			resp, err = h.svc.FindAll(ctx)
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NaoLidosCount powers the notification badge.
func (h *AlertasHandler) NaoLidosCount(c *gin.Context) {
	total, err := h.svc.NaoLidosCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// MarcarComoLido godoc
// @Summary Marcar alerta como lido
// @Tags alertas
// @Security BearerAuth
// @Param id path string true "UUID do alerta"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/alertas/{id}/lido [patch]
func (h *AlertasHandler) MarcarComoLido(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.MarcarComoLido(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Verificar roda a reconciliação completa sob demanda; o cron faz o mesmo
// periodicamente.
func (h *AlertasHandler) Verificar(c *gin.Context) {
	if err := h.svc.GerarAlertas(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensagem": "Verificação de alertas concluída"})
}
