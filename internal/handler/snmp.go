package handler

import (
	"errors"
	"net/http"
	"strings"

	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/metrics"
	"printmonitor/internal/validacao"

	"github.com/gin-gonic/gin"
)

// SNMPHandler bridges the browser's "testar SNMP" button to the configured probe.
type SNMPHandler struct{ sonda infra.Sonda }

func NewSNMPHandler(sonda infra.Sonda) *SNMPHandler {
	return &SNMPHandler{sonda: sonda}
}

// Testar godoc
// @Summary Testa a leitura SNMP de uma impressora
// @Tags snmp
// @Accept json
// @Produce json
// @Param body body dto.TestarSNMPRequest true "IP da impressora"
// @Success 200 {object} dto.SNMPResultado
// @Failure 400 {object} dto.SNMPResultado
// @Failure 500 {object} dto.SNMPResultado
// @Router /testar-snmp [post]
func (h *SNMPHandler) Testar(c *gin.Context) {
	var req dto.TestarSNMPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.SNMPResultado{Error: "Erro interno do servidor"})
		return
	}
	var ip string
	switch v := req.IP.(type) {
	case nil:
	case string:
		ip = strings.TrimSpace(v)
	default:
		c.JSON(http.StatusBadRequest, dto.SNMPResultado{Error: "IP inválido"})
		return
	}
	if ip == "" {
		c.JSON(http.StatusBadRequest, dto.SNMPResultado{Error: "IP não informado"})
		return
	}
	if !validacao.IPv4Valido(ip) {
		c.JSON(http.StatusBadRequest, dto.SNMPResultado{Error: "IP inválido"})
		return
	}

	out, err := h.sonda.Sondar(c.Request.Context(), ip)
	switch {
	case errors.Is(err, infra.ErrRetornoInvalido):
		metrics.SondaResultados.WithLabelValues("retorno_invalido").Inc()
		c.JSON(http.StatusOK, dto.SNMPResultado{Error: "Retorno SNMP inválido"})
	case err != nil:
		metrics.SondaResultados.WithLabelValues("falha").Inc()
		c.JSON(http.StatusOK, dto.SNMPResultado{Error: "Falha ao executar teste SNMP"})
	default:
		metrics.SondaResultados.WithLabelValues("ok").Inc()
		c.Data(http.StatusOK, "application/json; charset=utf-8", out)
	}
}
