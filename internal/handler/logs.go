package handler

import (
	"net/http"

	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct{ svc service.LogService }

func NewLogsHandler(svc service.LogService) *LogsHandler { return &LogsHandler{svc: svc} }

// Listar godoc
// @Summary Listar trilha de auditoria
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param tipo_operacao query string false "CREATE | UPDATE | DELETE | LOGIN"
// @Param tipo_entidade query string false "MEDICAMENTO, VENDA, ..."
// @Success 200 {object} dto.LogListResponse
// @Router /v1/logs [get]
func (h *LogsHandler) Listar(c *gin.Context) {
	var filter dto.LogFilter
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
