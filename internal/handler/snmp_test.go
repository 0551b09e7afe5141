package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"printmonitor/internal/infra"

	"github.com/stretchr/testify/assert"
)

func TestTestarSNMP(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		out      string
		err      error
		wantCode int
		wantBody string
	}{
		{"undecodable body", `{"ip":`, "", nil, http.StatusInternalServerError, `{"success":false,"error":"Erro interno do servidor"}`},
		{"missing ip", `{}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP não informado"}`},
		{"octet out of range", `{"ip":"999.1.1.1"}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP inválido"}`},
		{"numeric ip", `{"ip":999}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP inválido"}`},
		{"object ip", `{"ip":{"a":1}}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP inválido"}`},
		{"null ip", `{"ip":null}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP não informado"}`},
		{"not a dotted quad", `{"ip":"10.0.0"}`, "", nil, http.StatusBadRequest, `{"success":false,"error":"IP inválido"}`},
		{"snmp answer is relayed", `{"ip":"192.168.1.10"}`, `{"success":true,"paginas":1234,"modelo":"HP"}`, nil, http.StatusOK, `{"success":true,"paginas":1234,"modelo":"HP"}`},
		{"snmp process failure", `{"ip":"192.168.1.10"}`, "", fmt.Errorf("%w: exit 1", infra.ErrSondaFalhou), http.StatusOK, `{"success":false,"error":"Falha ao executar teste SNMP"}`},
		{"non-json output", `{"ip":"192.168.1.10"}`, "", infra.ErrRetornoInvalido, http.StatusOK, `{"success":false,"error":"Retorno SNMP inválido"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := novoFixture()
			f.sonda.out = json.RawMessage(tc.out)
			f.sonda.err = tc.err

			w := f.postJSON("/api/testar-snmp", tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestTestarSNMP_TrimsIP(t *testing.T) {
	f := novoFixture()
	f.sonda.out = json.RawMessage(`{"success":true}`)
	f.postJSON("/api/testar-snmp", `{"ip":" 192.168.1.10 "}`)
	assert.Equal(t, "192.168.1.10", f.sonda.ip)
}
