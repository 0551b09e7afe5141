package handler

import (
	"net/http"
	"net/url"

	"printmonitor/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Flash messages shown after a redirect, keyed by the ?msg= code.
var mensagens = map[string]string{
	"criada":      "Impressora cadastrada com sucesso!",
	"atualizada":  "Impressora atualizada com sucesso!",
	"desconto":    "Percentual atualizado",
	"substituida": "Impressora substituída com sucesso",
	"compra":      "Compra registrada com sucesso",
	"sair":        "Sessão encerrada",
}

const msgErroCarregar = "Erro ao carregar os dados. Tente novamente."

// render adds the fields every page layout reads and writes the template.
func render(c *gin.Context, status int, pagina, titulo string, dados gin.H) {
	if dados == nil {
		dados = gin.H{}
	}
	dados["Titulo"] = titulo
	dados["Rota"] = c.FullPath()
	if _, ok := dados["Msg"]; !ok {
		dados["Msg"] = mensagens[c.Query("msg")]
	}
	c.HTML(status, pagina, dados)
}

// falhaPagina logs a store failure and renders the generic error page.
func falhaPagina(c *gin.Context, err error, contexto string) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Msg(contexto)
	render(c, http.StatusInternalServerError, "erro.html", "Erro", gin.H{"Erro": msgErroCarregar})
}

func redirecionar(c *gin.Context, destino, msg string) {
	if msg != "" {
		destino += "?msg=" + url.QueryEscape(msg)
	}
	c.Redirect(http.StatusSeeOther, destino)
}
