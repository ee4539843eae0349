package service

// stubs_test.go
// In-memory repository stubs. The services open no real transaction when the
// repo's DB() is nil, so every business rule can be exercised without
// Postgres.

import (
	"context"
	"strings"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Clock ─────────────────────────────────────────────────────────────────────

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func (c fixedClock) Today() time.Time {
	y, m, d := c.t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// hoje é a data de referência dos testes.
var hoje = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func relogio() fixedClock { return fixedClock{t: hoje} }

func dias(n int) time.Time { return hoje.Truncate(24 * time.Hour).AddDate(0, 0, n) }

// ── LogService ────────────────────────────────────────────────────────────────

type noopLogs struct{ registros int }

var _ LogService = (*noopLogs)(nil)

func (l *noopLogs) Registrar(_ context.Context, _ Identity, _, _ string, _ *uuid.UUID, _ string, _ map[string]interface{}) {
	l.registros++
}

func (l *noopLogs) List(_ context.Context, _ dto.LogFilter) (*dto.LogListResponse, error) {
	return &dto.LogListResponse{}, nil
}

// ── MedicamentoRepository ─────────────────────────────────────────────────────

type stubMedicamentoRepo struct {
	itens   map[uuid.UUID]*model.Medicamento
	imagens []model.MedicamentoImagem
}

var _ repository.MedicamentoRepository = (*stubMedicamentoRepo)(nil)

func newStubMedicamentoRepo(meds ...*model.Medicamento) *stubMedicamentoRepo {
	r := &stubMedicamentoRepo{itens: make(map[uuid.UUID]*model.Medicamento)}
	for _, m := range meds {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		r.itens[m.ID] = m
	}
	return r
}

func (r *stubMedicamentoRepo) Create(_ context.Context, m *model.Medicamento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.itens[m.ID] = m
	return nil
}

func (r *stubMedicamentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Medicamento, error) {
	m, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMedicamentoRepo) FindByNome(_ context.Context, nome string) (*model.Medicamento, error) {
	for _, m := range r.itens {
		if strings.EqualFold(m.Nome, nome) {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMedicamentoRepo) List(_ context.Context, filter dto.MedicamentoFilter) ([]model.Medicamento, int64, error) {
	var out []model.Medicamento
	for _, m := range r.itens {
		switch filter.Ativo {
		case "false":
			if m.Ativo {
				continue
			}
		case "all":
		default:
			if !m.Ativo {
				continue
			}
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMedicamentoRepo) FindAtivos(_ context.Context) ([]model.Medicamento, error) {
	var out []model.Medicamento
	for _, m := range r.itens {
		if m.Ativo {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicamentoRepo) FindAtivosComValidadeAte(_ context.Context, limite time.Time) ([]model.Medicamento, error) {
	var out []model.Medicamento
	for _, m := range r.itens {
		if m.Ativo && m.Validade != nil && !m.Validade.After(limite) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicamentoRepo) FindAtivosVencidos(_ context.Context, hoje time.Time) ([]model.Medicamento, error) {
	var out []model.Medicamento
	for _, m := range r.itens {
		if m.Ativo && m.Validade != nil && m.Validade.Before(hoje) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicamentoRepo) Update(_ context.Context, m *model.Medicamento) error {
	r.itens[m.ID] = m
	return nil
}

func (r *stubMedicamentoRepo) UpdateStatus(_ context.Context, id uuid.UUID, ativo bool) error {
	if m, ok := r.itens[id]; ok {
		m.Ativo = ativo
	}
	return nil
}

func (r *stubMedicamentoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.itens, id)
	return nil
}

func (r *stubMedicamentoRepo) CountByCategoria(_ context.Context, categoriaID uuid.UUID) (int64, error) {
	var total int64
	for _, m := range r.itens {
		if m.CategoriaID == categoriaID {
			total++
		}
	}
	return total, nil
}

func (r *stubMedicamentoRepo) AddImagens(_ context.Context, imagens []model.MedicamentoImagem) error {
	r.imagens = append(r.imagens, imagens...)
	return nil
}

func (r *stubMedicamentoRepo) DeleteImagens(_ context.Context, medicamentoID uuid.UUID) error {
	kept := r.imagens[:0]
	for _, img := range r.imagens {
		if img.MedicamentoID != medicamentoID {
			kept = append(kept, img)
		}
	}
	r.imagens = kept
	return nil
}

func (r *stubMedicamentoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Medicamento, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubMedicamentoRepo) UpdateEstoqueTx(_ *gorm.DB, id uuid.UUID, novaQuantidade int) error {
	if m, ok := r.itens[id]; ok {
		m.QuantidadeEstoque = novaQuantidade
	}
	return nil
}

func (r *stubMedicamentoRepo) DB() *gorm.DB { return nil }

// ── MovimentacaoEstoqueRepository ─────────────────────────────────────────────

type stubMovimentacaoRepo struct {
	movs []model.MovimentacaoEstoque
}

var _ repository.MovimentacaoEstoqueRepository = (*stubMovimentacaoRepo)(nil)

func (r *stubMovimentacaoRepo) Create(_ context.Context, m *model.MovimentacaoEstoque) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovimentacaoRepo) CreateTx(_ *gorm.DB, m *model.MovimentacaoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimentacaoRepo) List(_ context.Context, filter repository.MovimentacaoFilter) ([]model.MovimentacaoEstoque, int64, error) {
	var out []model.MovimentacaoEstoque
	for _, m := range r.movs {
		if filter.MedicamentoID != nil && m.MedicamentoID != *filter.MedicamentoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// porMedicamento filters the ledger of one medicine.
func (r *stubMovimentacaoRepo) porMedicamento(id uuid.UUID) []model.MovimentacaoEstoque {
	var out []model.MovimentacaoEstoque
	for _, m := range r.movs {
		if m.MedicamentoID == id {
			out = append(out, m)
		}
	}
	return out
}

// ── AlertaRepository ──────────────────────────────────────────────────────────

type stubAlertaRepo struct {
	itens []*model.Alerta
}

var _ repository.AlertaRepository = (*stubAlertaRepo)(nil)

func (r *stubAlertaRepo) Create(_ context.Context, a *model.Alerta) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.itens = append(r.itens, a)
	return nil
}

func (r *stubAlertaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Alerta, error) {
	for _, a := range r.itens {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertaRepo) FindAll(_ context.Context) ([]model.Alerta, error) {
	out := make([]model.Alerta, 0, len(r.itens))
	for _, a := range r.itens {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAlertaRepo) FindNaoLidos(_ context.Context) ([]model.Alerta, error) {
	var out []model.Alerta
	for _, a := range r.itens {
		if !a.Lido {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlertaRepo) FindNaoLidosPorTipo(_ context.Context, tipo string) ([]model.Alerta, error) {
	var out []model.Alerta
	for _, a := range r.itens {
		if a.Tipo == tipo && !a.Lido {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAlertaRepo) ExistsNaoLido(_ context.Context, medicamentoID uuid.UUID, tipo string) (bool, error) {
	for _, a := range r.itens {
		if a.MedicamentoID == medicamentoID && a.Tipo == tipo && !a.Lido {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAlertaRepo) Update(_ context.Context, a *model.Alerta) error {
	for i, cur := range r.itens {
		if cur.ID == a.ID {
			r.itens[i] = a
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubAlertaRepo) MarcarLidosPorMedicamento(_ context.Context, medicamentoID uuid.UUID) error {
	for _, a := range r.itens {
		if a.MedicamentoID == medicamentoID {
			a.Lido = true
		}
	}
	return nil
}

func (r *stubAlertaRepo) MarcarLidosPorMedicamentoETipo(_ context.Context, medicamentoID uuid.UUID, tipo string) error {
	for _, a := range r.itens {
		if a.MedicamentoID == medicamentoID && a.Tipo == tipo {
			a.Lido = true
		}
	}
	return nil
}

func (r *stubAlertaRepo) DeleteByMedicamento(_ context.Context, medicamentoID uuid.UUID) error {
	kept := r.itens[:0]
	for _, a := range r.itens {
		if a.MedicamentoID != medicamentoID {
			kept = append(kept, a)
		}
	}
	r.itens = kept
	return nil
}

func (r *stubAlertaRepo) CountNaoLidos(_ context.Context) (int64, error) {
	var total int64
	for _, a := range r.itens {
		if !a.Lido {
			total++
		}
	}
	return total, nil
}

func (r *stubAlertaRepo) doTipo(medicamentoID uuid.UUID, tipo string) []*model.Alerta {
	var out []*model.Alerta
	for _, a := range r.itens {
		if a.MedicamentoID == medicamentoID && a.Tipo == tipo {
			out = append(out, a)
		}
	}
	return out
}

// ── VendaRepository ───────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
}

var _ repository.VendaRepository = (*stubVendaRepo)(nil)

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) CreateTx(_ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	stored := *v
	r.vendas[v.ID] = &stored
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) List(_ context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if filter.Status != "" && filter.Status != "all" && v.Status != filter.Status {
			continue
		}
		if filter.ClienteID != "" && v.ClienteID.String() != filter.ClienteID {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendaRepo) FindByClienteID(_ context.Context, clienteID uuid.UUID) ([]model.Venda, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if v.ClienteID == clienteID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVendaRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	if v, ok := r.vendas[id]; ok {
		v.Status = status
	}
	return nil
}

func (r *stubVendaRepo) ExistsItemPorMedicamento(_ context.Context, medicamentoID uuid.UUID) (bool, error) {
	for _, v := range r.vendas {
		for _, item := range v.Itens {
			if item.MedicamentoID == medicamentoID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

// ── ClienteRepository ─────────────────────────────────────────────────────────

type stubClienteRepo struct {
	itens map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func newStubClienteRepo(clientes ...*model.Cliente) *stubClienteRepo {
	r := &stubClienteRepo{itens: make(map[uuid.UUID]*model.Cliente)}
	for _, c := range clientes {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.itens[c.ID] = c
	}
	return r
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.itens[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) FindByCPF(_ context.Context, cpf string) (*model.Cliente, error) {
	for _, c := range r.itens {
		if c.CPF == cpf {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.itens {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.itens[c.ID] = c
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.itens, id)
	return nil
}

// ── CategoriaRepository ───────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	itens map[uuid.UUID]*model.Categoria
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

func newStubCategoriaRepo(categorias ...*model.Categoria) *stubCategoriaRepo {
	r := &stubCategoriaRepo{itens: make(map[uuid.UUID]*model.Categoria)}
	for _, c := range categorias {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.itens[c.ID] = c
	}
	return r
}

func (r *stubCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.itens[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.itens {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) FindByNome(_ context.Context, nome string) (*model.Categoria, error) {
	for _, c := range r.itens {
		if strings.EqualFold(c.Nome, nome) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Update(_ context.Context, c *model.Categoria) error {
	r.itens[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.itens, id)
	return nil
}

// ── UsuarioRepository ─────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	itens map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo(usuarios ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{itens: make(map[uuid.UUID]*model.Usuario)}
	for _, u := range usuarios {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.itens[u.ID] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.itens[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.itens {
		if strings.EqualFold(u.Email, email) && u.Ativo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.itens {
		if u.Ativo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.itens {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.itens[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.itens[id]; ok {
		u.Ativo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reativar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.itens[id]; ok {
		u.Ativo = true
	}
	return nil
}

// ── ImageStore ────────────────────────────────────────────────────────────────

type memImageStore struct {
	salvas    []string
	removidas []string
}

var _ ImageStore = (*memImageStore)(nil)

func (s *memImageStore) Save(medicamentoID uuid.UUID, filename string, _ []byte) (string, error) {
	url := "/uploads/" + medicamentoID.String() + "/" + filename
	s.salvas = append(s.salvas, url)
	return url, nil
}

func (s *memImageStore) Remove(url string) error {
	s.removidas = append(s.removidas, url)
	return nil
}

func (s *memImageStore) RemoveAll(medicamentoID uuid.UUID) error {
	s.removidas = append(s.removidas, medicamentoID.String())
	return nil
}

// ── Builders ──────────────────────────────────────────────────────────────────

func novoMedicamento(nome string, estoque int, preco string) *model.Medicamento {
	validade := dias(365)
	return &model.Medicamento{
		ID:                uuid.New(),
		Nome:              nome,
		Preco:             decimal.RequireFromString(preco),
		QuantidadeEstoque: estoque,
		Validade:          &validade,
		Ativo:             true,
		CategoriaID:       uuid.New(),
	}
}

func novoCliente(nome string, nascimento time.Time) *model.Cliente {
	return &model.Cliente{
		ID:             uuid.New(),
		Nome:           nome,
		CPF:            uuid.New().String()[:11],
		DataNascimento: nascimento,
	}
}

// ── Ambiente de teste ─────────────────────────────────────────────────────────

// ambiente liga os serviços reais aos stubs; só os repositórios são falsos.
type ambiente struct {
	meds     *stubMedicamentoRepo
	movs     *stubMovimentacaoRepo
	alertaDB *stubAlertaRepo
	vendaDB  *stubVendaRepo
	clientes *stubClienteRepo
	logs     *noopLogs

	alertas AlertaService
	estoque EstoqueService
	vendas  VendaService
}

func novoAmbiente(meds ...*model.Medicamento) *ambiente {
	a := &ambiente{
		meds:     newStubMedicamentoRepo(meds...),
		movs:     &stubMovimentacaoRepo{},
		alertaDB: &stubAlertaRepo{},
		vendaDB:  newStubVendaRepo(),
		clientes: newStubClienteRepo(),
		logs:     &noopLogs{},
	}
	clock := relogio()
	a.alertas = NewAlertaService(a.alertaDB, a.meds, AlertaConfig{}, clock)
	a.estoque = NewEstoqueService(a.meds, a.movs, a.alertas, a.logs, clock)
	a.vendas = NewVendaService(a.vendaDB, a.clientes, a.meds, a.estoque, a.alertas, a.logs, clock)
	return a
}

func ator() Identity { return Identity{ID: uuid.New(), Nome: "Teste"} }
