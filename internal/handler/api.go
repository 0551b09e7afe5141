package handler

import (
	"errors"
	"net/http"
	"time"

	"printmonitor/internal/apierror"
	"printmonitor/internal/dto"
	"printmonitor/internal/service"
	"printmonitor/internal/validacao"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIHandler is the read-only JSON surface under /api/v1.
type APIHandler struct {
	impressoras service.ImpressoraService
	painel      service.PainelService
	compras     service.CompraPapelService
	loc         *time.Location
	agora       func() time.Time
}

func NewAPIHandler(impressoras service.ImpressoraService, painel service.PainelService, compras service.CompraPapelService, loc *time.Location) *APIHandler {
	if loc == nil {
		loc = time.Local
	}
	return &APIHandler{impressoras: impressoras, painel: painel, compras: compras, loc: loc, agora: time.Now}
}

type dashboardQuery struct {
	Dias int `form:"dias" validate:"min=0,max=3660"`
}

type mesQuery struct {
	Mes string `form:"mes"`
}

// ListarImpressoras godoc
// @Summary Lista todas as impressoras
// @Tags impressoras
// @Produce json
// @Success 200 {array} dto.ImpressoraResponse
// @Router /v1/impressoras [get]
func (h *APIHandler) ListarImpressoras(c *gin.Context) {
	resp, err := h.impressoras.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Consumo godoc
// @Summary Leituras diárias de uma impressora com o delta de cada dia
// @Tags impressoras
// @Produce json
// @Param id path string true "ID da impressora"
// @Success 200 {object} dto.DetalheImpressoraResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/impressoras/{id}/consumo [get]
func (h *APIHandler) Consumo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.impressoras.ObterDetalhe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrImpressoraNaoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New("Impressora não encontrada"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary Totais diários da frota e média móvel
// @Tags painel
// @Produce json
// @Param dias query int false "Últimos N dias (0 = todo o histórico)"
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/dashboard [get]
func (h *APIHandler) Dashboard(c *gin.Context) {
	var q dashboardQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.painel.Dashboard(c.Request.Context(), q.Dias)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico godoc
// @Summary Leituras de contador com filtros
// @Tags painel
// @Produce json
// @Param nome query string false "Parte do nome"
// @Param data query string false "Data AAAA-MM-DD"
// @Param paginas query string false "Parte do contador"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {object} dto.HistoricoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/historico [get]
func (h *APIHandler) Historico(c *gin.Context) {
	var filtro dto.HistoricoFilter
	if !bindQuery(c, &filtro) {
		return
	}
	resp, err := h.painel.Historico(c.Request.Context(), filtro)
	if err != nil {
		if service.IsValidacao(err) {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"data": "date"}))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Financeiro godoc
// @Summary Resumo financeiro do mês
// @Tags financeiro
// @Produce json
// @Param mes query string false "Mês AAAA-MM (padrão: mês atual)"
// @Success 200 {object} dto.FinanceiroResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/financeiro [get]
func (h *APIHandler) Financeiro(c *gin.Context) {
	mes, ok := h.mes(c)
	if !ok {
		return
	}
	resp, err := h.painel.Financeiro(c.Request.Context(), mes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Compras godoc
// @Summary Compras de papel do mês
// @Tags financeiro
// @Produce json
// @Param mes query string false "Mês AAAA-MM (padrão: mês atual)"
// @Success 200 {array} dto.CompraPapelResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/compras [get]
func (h *APIHandler) Compras(c *gin.Context) {
	mes, ok := h.mes(c)
	if !ok {
		return
	}
	resp, err := h.compras.ListarPorMes(c.Request.Context(), mes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *APIHandler) mes(c *gin.Context) (validacao.Mes, bool) {
	var q mesQuery
	_ = c.ShouldBindQuery(&q)
	mes, err := validacao.ParseMes(q.Mes, h.agora().In(h.loc))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Mês inválido, use AAAA-MM"))
		return validacao.Mes{}, false
	}
	return mes, true
}
