package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type MedicamentosHandler struct{ svc service.MedicamentoService }

func NewMedicamentosHandler(svc service.MedicamentoService) *MedicamentosHandler {
	return &MedicamentosHandler{svc: svc}
}

// Criar godoc
// @Summary Cadastrar medicamento
// @Description Cria o medicamento a partir de multipart/form-data; as imagens chegam no campo "imagens".
// @Tags medicamentos
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.MedicamentoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/medicamentos [post]
func (h *MedicamentosHandler) Criar(c *gin.Context) {
	var req dto.MedicamentoCreateRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	imagens, ok := lerImagens(c)
	if !ok {
		return
	}

	resp, err := h.svc.Criar(c.Request.Context(), atorFrom(c), req, imagens)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MedicamentosHandler) Listar(c *gin.Context) {
	var filter dto.MedicamentoFilter
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

func (h *MedicamentosHandler) Obter(c *gin.Context) {
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

func (h *MedicamentosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MedicamentoUpdateRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	// Imagens novas são opcionais no update; sem arquivos, as atuais ficam.
	imagens, ok := lerImagens(c)
	if !ok {
		return
	}

	resp, err := h.svc.Atualizar(c.Request.Context(), atorFrom(c), id, req, imagens)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AtualizarStatus godoc
// @Summary Ativar/inativar medicamento
// @Tags medicamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID do medicamento"
// @Param body body dto.StatusUpdateRequest true "Novo status"
// @Success 200 {object} dto.MedicamentoResponse
// @Router /v1/medicamentos/{id}/status [patch]
func (h *MedicamentosHandler) AtualizarStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarStatus(c.Request.Context(), atorFrom(c), id, *req.Ativo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Excluir godoc
// @Summary Excluir medicamento
// @Description Exclusão física; falha com 422 se o medicamento tiver vendas.
// @Tags medicamentos
// @Security BearerAuth
// @Param id path string true "UUID do medicamento"
// @Success 204
// @Failure 422 {object} apierror.APIError
// @Router /v1/medicamentos/{id} [delete]
func (h *MedicamentosHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), atorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// lerImagens reads every uploaded file from the "imagens" multipart field.
func lerImagens(c *gin.Context) ([]service.ImagemUpload, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulário multipart inválido: "+err.Error()))
		return nil, false
	}
	files := form.File["imagens"]
	imagens := make([]service.ImagemUpload, 0, len(files))
	for _, fh := range files {
		data, err := lerArquivo(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Falha ao ler imagem '"+fh.Filename+"'"))
			return nil, false
		}
		imagens = append(imagens, service.ImagemUpload{Filename: fh.Filename, Data: data})
	}
	return imagens, true
}

func lerArquivo(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
