package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	CookieAcesso = "auth"
	HeaderAcesso = "X-Access"
	QuerySenha   = "senha"
	RotaLogin    = "/auth"
)

// SessaoClaims are the claims carried by the session cookie.
type SessaoClaims struct {
	jwt.RegisteredClaims
}

// Acesso is the shared-secret gate in front of every mutation page.
type Acesso struct {
	senha  string
	chave  []byte
	ttl    time.Duration
	seguro bool
	agora  func() time.Time
}

// NewAcesso builds the gate. An empty segredo gets a random signing key, so
// sessions do not survive a restart.
func NewAcesso(senha, segredo string, ttl time.Duration, seguro bool) *Acesso {
	chave := []byte(segredo)
	if len(chave) == 0 {
		chave = make([]byte, 32)
		if _, err := rand.Read(chave); err != nil {
			log.Fatal().Err(err).Msg("failed to generate session key")
		}
		log.Warn().Msg("SESSION_SECRET vazio: usando chave aleatória, sessões expiram ao reiniciar")
	}
	if senha == "" {
		log.Warn().Msg("PRIVATE_PASSWORD vazio: nenhuma senha será aceita")
	}
	return &Acesso{senha: senha, chave: chave, ttl: ttl, seguro: seguro, agora: time.Now}
}

// SenhaConfere compares in constant time. An empty configured secret matches nothing.
func (a *Acesso) SenhaConfere(s string) bool {
	if a.senha == "" || s == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s), []byte(a.senha)) == 1
}

// Exigir lets the request through on a valid session cookie or a correct
// secret in ?senha= / X-Access; otherwise it redirects to the login page.
func (a *Acesso) Exigir() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(CookieAcesso); err == nil && a.sessaoValida(cookie) {
			c.Next()
			return
		}

		if a.SenhaConfere(c.Query(QuerySenha)) || a.SenhaConfere(c.GetHeader(HeaderAcesso)) {
			if err := a.Emitir(c); err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		log.Debug().Str("request_id", c.GetString(RequestIDKey)).Str("path", c.Request.URL.Path).Msg("acesso negado")
		c.Redirect(http.StatusSeeOther, RotaLogin+"?next="+url.QueryEscape(destinoRetorno(c.Request.URL)))
		c.Abort()
	}
}

// destinoRetorno keeps path and query for the post-login redirect, minus the secret.
func destinoRetorno(u *url.URL) string {
	q := u.Query()
	q.Del(QuerySenha)
	if len(q) == 0 {
		return u.Path
	}
	return u.Path + "?" + q.Encode()
}

// Emitir sets a fresh session cookie.
func (a *Acesso) Emitir(c *gin.Context) error {
	agora := a.agora()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessaoClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(agora),
			ExpiresAt: jwt.NewNumericDate(agora.Add(a.ttl)),
		},
	})
	assinado, err := token.SignedString(a.chave)
	if err != nil {
		return err
	}
	a.cookie(c, assinado, int(a.ttl.Seconds()))
	return nil
}

// Limpar removes the session cookie.
func (a *Acesso) Limpar(c *gin.Context) {
	a.cookie(c, "", -1)
}

func (a *Acesso) cookie(c *gin.Context, valor string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAcesso, valor, maxAge, "/", "", a.seguro, true)
}

func (a *Acesso) sessaoValida(bruto string) bool {
	token, err := jwt.ParseWithClaims(bruto, &SessaoClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.chave, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.agora),
		jwt.WithExpirationRequired(),
	)
	return err == nil && token.Valid
}

// DestinoLocal keeps post-login redirects on this site.
func DestinoLocal(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
