package handler

import (
	"net/http"

	"printmonitor/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AcessoHandler serves the login page for the mutation gate.
type AcessoHandler struct{ gate *middleware.Acesso }

func NewAcessoHandler(gate *middleware.Acesso) *AcessoHandler {
	return &AcessoHandler{gate: gate}
}

func (h *AcessoHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", "Acesso restrito", gin.H{
		"Next": middleware.DestinoLocal(c.Query("next")),
	})
}

func (h *AcessoHandler) Login(c *gin.Context) {
	next := middleware.DestinoLocal(c.PostForm("next"))
	if !h.gate.SenhaConfere(c.PostForm("senha")) {
		log.Warn().Str("ip", c.ClientIP()).Msg("tentativa de acesso com senha incorreta")
		render(c, http.StatusUnauthorized, "login.html", "Acesso restrito", gin.H{
			"Next": next, "Erro": "Senha incorreta",
		})
		return
	}
	if err := h.gate.Emitir(c); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AcessoHandler) Sair(c *gin.Context) {
	h.gate.Limpar(c)
	redirecionar(c, "/impressoras", "sair")
}
