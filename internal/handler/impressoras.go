package handler

import (
	"errors"
	"net/http"

	"printmonitor/internal/dto"
	"printmonitor/internal/service"
	"printmonitor/internal/validacao"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImpressorasHandler serves the printer lifecycle pages.
type ImpressorasHandler struct{ svc service.ImpressoraService }

func NewImpressorasHandler(svc service.ImpressoraService) *ImpressorasHandler {
	return &ImpressorasHandler{svc: svc}
}

func (h *ImpressorasHandler) Listar(c *gin.Context) {
	impressoras, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		falhaPagina(c, err, "listar impressoras")
		return
	}
	render(c, http.StatusOK, "impressoras.html", "Impressoras Monitoradas", gin.H{"Impressoras": impressoras})
}

func (h *ImpressorasHandler) Detalhe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		redirecionar(c, "/impressoras", "")
		return
	}
	det, err := h.svc.ObterDetalhe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrImpressoraNaoEncontrada) {
			redirecionar(c, "/impressoras", "")
			return
		}
		falhaPagina(c, err, "detalhe impressora")
		return
	}

	rotulos := make([]string, len(det.Consumo))
	deltas := make([]int64, len(det.Consumo))
	for k, d := range det.Consumo {
		rotulos[k] = d.Data
		deltas[k] = d.Delta
	}
	render(c, http.StatusOK, "impressora.html", det.Impressora.Nome, gin.H{
		"Impressora": det.Impressora,
		"Consumo":    det.Consumo,
		"Rotulos":    rotulos,
		"Deltas":     deltas,
	})
}

// ── Cadastro ─────────────────────────────────────────────────────────────────

func (h *ImpressorasHandler) NovaForm(c *gin.Context) {
	render(c, http.StatusOK, "impressora_form.html", "Cadastrar Impressora", gin.H{
		"Form": dto.ImpressoraForm{}, "Acao": "/impressoras/nova",
	})
}

func (h *ImpressorasHandler) Criar(c *gin.Context) {
	var form dto.ImpressoraForm
	req, msg := impressoraRequest(c, &form)
	if msg == "" {
		_, err := h.svc.Criar(c.Request.Context(), req)
		if err == nil {
			redirecionar(c, "/impressoras", "criada")
			return
		}
		if !service.IsValidacao(err) {
			falhaPagina(c, err, "cadastrar impressora")
			return
		}
		msg = err.Error()
	}
	render(c, http.StatusUnprocessableEntity, "impressora_form.html", "Cadastrar Impressora", gin.H{
		"Form": form, "Acao": "/impressoras/nova", "Erro": msg,
	})
}

func (h *ImpressorasHandler) EditarForm(c *gin.Context) {
	imp, ok := h.carregar(c)
	if !ok {
		return
	}
	form := dto.ImpressoraForm{Nome: imp.Nome, IP: imp.IP, Desconto: imp.DescontoBorrao.String()}
	if imp.Setor != nil {
		form.Setor = *imp.Setor
	}
	render(c, http.StatusOK, "impressora_form.html", "Editar Impressora", gin.H{
		"Form": form, "Acao": "/impressoras/" + imp.ID + "/editar", "Impressora": imp,
	})
}

func (h *ImpressorasHandler) Atualizar(c *gin.Context) {
	imp, ok := h.carregar(c)
	if !ok {
		return
	}
	id := uuid.MustParse(imp.ID)

	var form dto.ImpressoraForm
	req, msg := impressoraRequest(c, &form)
	if msg == "" {
		_, err := h.svc.Atualizar(c.Request.Context(), id, req)
		switch {
		case err == nil:
			redirecionar(c, "/impressoras/"+imp.ID, "atualizada")
			return
		case errors.Is(err, service.ErrImpressoraNaoEncontrada):
			redirecionar(c, "/impressoras", "")
			return
		case !service.IsValidacao(err):
			falhaPagina(c, err, "atualizar impressora")
			return
		}
		msg = err.Error()
	}
	render(c, http.StatusUnprocessableEntity, "impressora_form.html", "Editar Impressora", gin.H{
		"Form": form, "Acao": "/impressoras/" + imp.ID + "/editar", "Impressora": imp, "Erro": msg,
	})
}

// ── Desconto de borrão ───────────────────────────────────────────────────────

func (h *ImpressorasHandler) DescontoForm(c *gin.Context) {
	imp, ok := h.carregar(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "desconto_form.html", "Desconto de borrão", gin.H{
		"Impressora": imp, "Desconto": imp.DescontoBorrao.String(),
	})
}

func (h *ImpressorasHandler) AtualizarDesconto(c *gin.Context) {
	imp, ok := h.carregar(c)
	if !ok {
		return
	}
	var form dto.DescontoForm
	msg := bindForm(c, &form)
	if msg == "" {
		desconto, err := validacao.ParseDesconto(form.Desconto)
		if err == nil {
			err = h.svc.AtualizarDesconto(c.Request.Context(), uuid.MustParse(imp.ID), desconto)
		}
		switch {
		case err == nil:
			redirecionar(c, "/impressoras/"+imp.ID, "desconto")
			return
		case errors.Is(err, service.ErrImpressoraNaoEncontrada):
			redirecionar(c, "/impressoras", "")
			return
		case !service.IsValidacao(err):
			falhaPagina(c, err, "atualizar desconto")
			return
		}
		msg = "O desconto deve estar entre 0% e 100%"
	}
	render(c, http.StatusUnprocessableEntity, "desconto_form.html", "Desconto de borrão", gin.H{
		"Impressora": imp, "Desconto": form.Desconto, "Erro": msg,
	})
}

// ── Substituição ─────────────────────────────────────────────────────────────

func (h *ImpressorasHandler) SubstituirForm(c *gin.Context) {
	form := dto.SubstituirForm{ImpressoraAntigaID: c.Query("origem")}
	h.renderSubstituir(c, http.StatusOK, form, "")
}

func (h *ImpressorasHandler) Substituir(c *gin.Context) {
	var form dto.SubstituirForm
	msg := bindForm(c, &form)
	if msg == "" {
		_, err := h.svc.Substituir(c.Request.Context(), dto.SubstituirRequest{
			ImpressoraAntigaID: form.ImpressoraAntigaID,
			NovoNome:           form.NovoNome,
			NovoIP:             form.NovoIP,
			Motivo:             form.Motivo,
		})
		if err == nil {
			redirecionar(c, "/impressoras", "substituida")
			return
		}
		if !service.IsValidacao(err) && !errors.Is(err, service.ErrImpressoraNaoEncontrada) {
			falhaPagina(c, err, "substituir impressora")
			return
		}
		msg = err.Error()
	}
	h.renderSubstituir(c, http.StatusUnprocessableEntity, form, msg)
}

func (h *ImpressorasHandler) renderSubstituir(c *gin.Context, status int, form dto.SubstituirForm, msg string) {
	ativas, err := h.svc.ListarAtivas(c.Request.Context())
	if err != nil {
		falhaPagina(c, err, "listar impressoras ativas")
		return
	}
	render(c, status, "substituir.html", "Substituir Impressora", gin.H{
		"Form": form, "Ativas": ativas, "Erro": msg,
	})
}

// ── helpers ──────────────────────────────────────────────────────────────────

// carregar resolves :id or redirects to the listing when it is unknown.
func (h *ImpressorasHandler) carregar(c *gin.Context) (*dto.ImpressoraResponse, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		redirecionar(c, "/impressoras", "")
		return nil, false
	}
	imp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrImpressoraNaoEncontrada) {
			redirecionar(c, "/impressoras", "")
			return nil, false
		}
		falhaPagina(c, err, "carregar impressora")
		return nil, false
	}
	return imp, true
}

func impressoraRequest(c *gin.Context, form *dto.ImpressoraForm) (dto.ImpressoraRequest, string) {
	if msg := bindForm(c, form); msg != "" {
		return dto.ImpressoraRequest{}, msg
	}
	desconto, err := validacao.ParseDesconto(form.Desconto)
	if err != nil {
		return dto.ImpressoraRequest{}, "O desconto deve estar entre 0% e 100%"
	}
	return dto.ImpressoraRequest{
		Nome:     form.Nome,
		IP:       form.IP,
		Setor:    form.Setor,
		Desconto: desconto,
	}, ""
}
