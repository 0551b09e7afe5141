package handler

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/service"
	"printmonitor/internal/validacao"

	"github.com/gin-gonic/gin"
)

// PainelHandler serves the dashboard, history and finance pages.
type PainelHandler struct {
	svc     service.PainelService
	compras service.CompraPapelService
	loc     *time.Location
	agora   func() time.Time
}

func NewPainelHandler(svc service.PainelService, compras service.CompraPapelService, loc *time.Location) *PainelHandler {
	if loc == nil {
		loc = time.Local
	}
	return &PainelHandler{svc: svc, compras: compras, loc: loc, agora: time.Now}
}

func (h *PainelHandler) Dashboard(c *gin.Context) {
	dias, _ := strconv.Atoi(c.Query("dias"))
	resp, err := h.svc.Dashboard(c.Request.Context(), dias)
	if err != nil {
		falhaPagina(c, err, "dashboard")
		return
	}
	var total int64
	for _, t := range resp.Totais {
		total += t
	}
	render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"Painel": resp,
		"Total":  total,
		"Dias":   dias,
	})
}

func (h *PainelHandler) Historico(c *gin.Context) {
	filtro := dto.HistoricoFilter{Page: 1, Limit: 50}
	_ = c.ShouldBindQuery(&filtro)
	if filtro.Limit > 500 {
		filtro.Limit = 500
	}

	resp, err := h.svc.Historico(c.Request.Context(), filtro)
	if err != nil {
		if service.IsValidacao(err) {
			render(c, http.StatusUnprocessableEntity, "historico.html", "Histórico", gin.H{
				"Filtro": filtro, "Resultado": &dto.HistoricoResponse{Page: 1, Limit: filtro.Limit}, "Erro": "Data inválida, use AAAA-MM-DD",
			})
			return
		}
		falhaPagina(c, err, "histórico")
		return
	}
	dados := gin.H{"Filtro": filtro, "Resultado": resp}
	switch {
	case resp.TotalPages > 0 && resp.Page > resp.TotalPages:
		// past the end: link back to the last page
		dados["Anterior"] = historicoURL(filtro, resp.TotalPages)
	case resp.Page > 1:
		dados["Anterior"] = historicoURL(filtro, resp.Page-1)
	}
	if resp.Page < resp.TotalPages {
		dados["Proxima"] = historicoURL(filtro, resp.Page+1)
	}
	render(c, http.StatusOK, "historico.html", "Histórico", dados)
}

func historicoURL(f dto.HistoricoFilter, page int) string {
	q := url.Values{}
	for k, v := range map[string]string{"nome": f.Nome, "data": f.Data, "paginas": f.Paginas} {
		if v != "" {
			q.Set(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(f.Limit))
	return "/historico?" + q.Encode()
}

func (h *PainelHandler) Financeiro(c *gin.Context) {
	mes, err := validacao.ParseMes(c.Query("mes"), h.agora().In(h.loc))
	if err != nil {
		mes = validacao.MesDe(h.agora().In(h.loc))
	}
	resp, err := h.svc.Financeiro(c.Request.Context(), mes)
	if err != nil {
		falhaPagina(c, err, "financeiro")
		return
	}
	compras, err := h.compras.ListarPorMes(c.Request.Context(), mes)
	if err != nil {
		falhaPagina(c, err, "listar compras")
		return
	}
	render(c, http.StatusOK, "financeiro.html", "Financeiro", gin.H{
		"Resumo":   resp,
		"Compras":  compras,
		"Anterior": mes.Inicio.AddDate(0, -1, 0).Format("2006-01"),
		"Proximo":  mes.Fim.Format("2006-01"),
	})
}

// RelatorioPDF renders the month's finance summary as a PDF download.
func (h *PainelHandler) RelatorioPDF(c *gin.Context) {
	mes, err := validacao.ParseMes(c.Query("mes"), h.agora().In(h.loc))
	if err != nil {
		c.String(http.StatusBadRequest, "Mês inválido, use AAAA-MM")
		return
	}
	resp, err := h.svc.Financeiro(c.Request.Context(), mes)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var buf bytes.Buffer
	if err := infra.GerarRelatorioFinanceiroPDF(&buf, resp, h.agora().In(h.loc)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="financeiro-`+resp.Mes+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ── Compras de papel ─────────────────────────────────────────────────────────

func (h *PainelHandler) NovaCompraForm(c *gin.Context) {
	form := dto.CompraPapelForm{Data: h.agora().In(h.loc).Format(time.DateOnly)}
	render(c, http.StatusOK, "compra_form.html", "Registrar compra de papel", gin.H{"Form": form})
}

func (h *PainelHandler) RegistrarCompra(c *gin.Context) {
	var form dto.CompraPapelForm
	msg := bindForm(c, &form)
	if msg == "" {
		var err error
		msg, err = h.registrar(c, form)
		if err != nil {
			falhaPagina(c, err, "registrar compra")
			return
		}
		if msg == "" {
			redirecionar(c, "/financeiro", "compra")
			return
		}
	}
	render(c, http.StatusUnprocessableEntity, "compra_form.html", "Registrar compra de papel", gin.H{"Form": form, "Erro": msg})
}

// registrar returns a user-facing message for bad input, or err for store failures.
func (h *PainelHandler) registrar(c *gin.Context, form dto.CompraPapelForm) (string, error) {
	data, err := validacao.ParseData(form.Data, h.loc)
	if err != nil {
		return "Data inválida", nil
	}
	qtd, err := validacao.ParseQuantidade(form.Quantidade)
	if err != nil {
		return "Quantidade deve ser maior que zero.", nil
	}
	valor, err := validacao.ParseValor(form.Valor)
	if err != nil || !valor.IsPositive() {
		return "Valor inválido.", nil
	}
	_, err = h.compras.Registrar(c.Request.Context(), dto.CompraPapelRequest{
		Data: data, QuantidadeFolhas: qtd, ValorTotal: valor, Fornecedor: form.Fornecedor,
	})
	if err != nil {
		if service.IsValidacao(err) {
			return err.Error(), nil
		}
		return "", err
	}
	return "", nil
}
