package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/middleware"
	"printmonitor/internal/service"
	"printmonitor/internal/validacao"
	"printmonitor/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Service stubs ─────────────────────────────────────────────────────────────

var errNaoEncontrada = service.ErrImpressoraNaoEncontrada

type stubImpressoras struct {
	itens      map[uuid.UUID]dto.ImpressoraResponse
	consumo    []dto.ConsumoDiarioResponse
	criarErr   error
	criado     *dto.ImpressoraRequest
	desconto   decimal.Decimal
	substituir *dto.SubstituirRequest
	falha      error
}

func novoStubImpressoras() *stubImpressoras {
	return &stubImpressoras{itens: make(map[uuid.UUID]dto.ImpressoraResponse)}
}

func (s *stubImpressoras) add(nome, ip string) uuid.UUID {
	id := uuid.New()
	s.itens[id] = dto.ImpressoraResponse{ID: id.String(), Nome: nome, IP: ip, Rede: true, Status: "ativa", DescontoBorrao: decimal.Zero}
	return id
}

func (s *stubImpressoras) Listar(context.Context) ([]dto.ImpressoraResponse, error) {
	if s.falha != nil {
		return nil, s.falha
	}
	out := make([]dto.ImpressoraResponse, 0, len(s.itens))
	for _, i := range s.itens {
		out = append(out, i)
	}
	return out, nil
}

func (s *stubImpressoras) ListarAtivas(ctx context.Context) ([]dto.ImpressoraResponse, error) {
	return s.Listar(ctx)
}

func (s *stubImpressoras) ObterPorID(_ context.Context, id uuid.UUID) (*dto.ImpressoraResponse, error) {
	i, ok := s.itens[id]
	if !ok {
		return nil, errNaoEncontrada
	}
	return &i, nil
}

func (s *stubImpressoras) ObterDetalhe(ctx context.Context, id uuid.UUID) (*dto.DetalheImpressoraResponse, error) {
	i, err := s.ObterPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DetalheImpressoraResponse{Impressora: *i, Consumo: s.consumo}, nil
}

func (s *stubImpressoras) Criar(_ context.Context, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error) {
	if s.criarErr != nil {
		return nil, s.criarErr
	}
	s.criado = &req
	return &dto.ImpressoraResponse{ID: uuid.NewString(), Nome: req.Nome, IP: req.IP}, nil
}

func (s *stubImpressoras) Atualizar(_ context.Context, id uuid.UUID, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error) {
	if _, ok := s.itens[id]; !ok {
		return nil, errNaoEncontrada
	}
	s.criado = &req
	return &dto.ImpressoraResponse{ID: id.String(), Nome: req.Nome, IP: req.IP}, nil
}

func (s *stubImpressoras) AtualizarDesconto(_ context.Context, id uuid.UUID, d decimal.Decimal) error {
	if _, ok := s.itens[id]; !ok {
		return errNaoEncontrada
	}
	if err := validacao.DescontoNoIntervalo(d); err != nil {
		return err
	}
	s.desconto = d
	return nil
}

func (s *stubImpressoras) Substituir(_ context.Context, req dto.SubstituirRequest) (*dto.SubstituicaoResponse, error) {
	if s.criarErr != nil {
		return nil, s.criarErr
	}
	s.substituir = &req
	return &dto.SubstituicaoResponse{Motivo: req.Motivo}, nil
}

type stubPainel struct {
	financeiro *dto.FinanceiroResponse
	mes        validacao.Mes
	dias       int
	filtro     dto.HistoricoFilter
	err        error
}

func (s *stubPainel) Dashboard(_ context.Context, dias int) (*dto.DashboardResponse, error) {
	s.dias = dias
	return &dto.DashboardResponse{Dias: []string{"2024-03-01"}, Totais: []int64{0}, MediaMovel: []decimal.Decimal{decimal.Zero}, Janela: 7}, s.err
}

func (s *stubPainel) Financeiro(_ context.Context, mes validacao.Mes) (*dto.FinanceiroResponse, error) {
	s.mes = mes
	if s.err != nil {
		return nil, s.err
	}
	if s.financeiro != nil {
		return s.financeiro, nil
	}
	return &dto.FinanceiroResponse{Mes: mes.Rotulo()}, nil
}

func (s *stubPainel) Historico(_ context.Context, f dto.HistoricoFilter) (*dto.HistoricoResponse, error) {
	s.filtro = f
	if f.Data != "" {
		if _, err := validacao.ParseData(f.Data, time.UTC); err != nil {
			return nil, err
		}
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return &dto.HistoricoResponse{Page: page, Limit: f.Limit, TotalPages: 3, Total: 120}, s.err
}

type stubCompras struct {
	registrado *dto.CompraPapelRequest
}

func (s *stubCompras) Registrar(_ context.Context, req dto.CompraPapelRequest) (*dto.CompraPapelResponse, error) {
	s.registrado = &req
	return &dto.CompraPapelResponse{ID: uuid.NewString()}, nil
}

func (s *stubCompras) ListarPorMes(context.Context, validacao.Mes) ([]dto.CompraPapelResponse, error) {
	return nil, nil
}

type stubSonda struct {
	out json.RawMessage
	err error
	ip  string
}

func (s *stubSonda) Sondar(_ context.Context, ip string) (json.RawMessage, error) {
	s.ip = ip
	return s.out, s.err
}

// ── Router ────────────────────────────────────────────────────────────────────

type fixture struct {
	r           *gin.Engine
	impressoras *stubImpressoras
	painel      *stubPainel
	compras     *stubCompras
	sonda       *stubSonda
}

var agoraFixo = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func novoFixture() *fixture {
	f := &fixture{
		impressoras: novoStubImpressoras(),
		painel:      &stubPainel{},
		compras:     &stubCompras{},
		sonda:       &stubSonda{},
	}
	tpl, err := web.Templates()
	if err != nil {
		panic(err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tpl)
	r.Use(middleware.ErrorHandler())

	imp := NewImpressorasHandler(f.impressoras)
	painel := NewPainelHandler(f.painel, f.compras, time.UTC)
	painel.agora = func() time.Time { return agoraFixo }
	api := NewAPIHandler(f.impressoras, f.painel, f.compras, time.UTC)
	api.agora = func() time.Time { return agoraFixo }
	acesso := NewAcessoHandler(middleware.NewAcesso("s3cret", "k", 30*time.Minute, false))

	r.GET("/auth", acesso.LoginForm)
	r.POST("/auth", acesso.Login)
	r.GET("/impressoras", imp.Listar)
	r.POST("/impressoras/nova", imp.Criar)
	r.POST("/impressoras/substituir", imp.Substituir)
	r.GET("/impressoras/:id", imp.Detalhe)
	r.GET("/impressoras/:id/editar", imp.EditarForm)
	r.POST("/impressoras/:id/editar", imp.Atualizar)
	r.POST("/impressoras/:id/desconto", imp.AtualizarDesconto)
	r.GET("/dashboard", painel.Dashboard)
	r.GET("/historico", painel.Historico)
	r.GET("/financeiro", painel.Financeiro)
	r.GET("/financeiro/relatorio.pdf", painel.RelatorioPDF)
	r.POST("/financeiro/papel/nova", painel.RegistrarCompra)
	r.POST("/api/testar-snmp", NewSNMPHandler(f.sonda).Testar)
	v1 := r.Group("/api/v1")
	v1.GET("/impressoras/:id/consumo", api.Consumo)
	v1.GET("/financeiro", api.Financeiro)
	v1.GET("/historico", api.Historico)
	v1.GET("/dashboard", api.Dashboard)

	f.r = r
	return f
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func (f *fixture) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}
