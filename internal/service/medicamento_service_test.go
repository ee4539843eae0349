package service

import (
	"context"
	"testing"

	"farmacia/internal/dto"
	"farmacia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ambienteMed struct {
	meds     *stubMedicamentoRepo
	cats     *stubCategoriaRepo
	vendaDB  *stubVendaRepo
	alertaDB *stubAlertaRepo
	store    *memImageStore

	catalogo MedicamentoService
	alertas  AlertaService
}

func novoAmbienteMed(meds ...*model.Medicamento) *ambienteMed {
	a := &ambienteMed{
		meds:     newStubMedicamentoRepo(meds...),
		cats:     newStubCategoriaRepo(&model.Categoria{Nome: "Geral"}),
		vendaDB:  newStubVendaRepo(),
		alertaDB: &stubAlertaRepo{},
		store:    &memImageStore{},
	}
	a.alertas = NewAlertaService(a.alertaDB, a.meds, AlertaConfig{}, relogio())
	a.catalogo = NewMedicamentoService(a.meds, a.cats, a.vendaDB, a.alertas, a.store, &noopLogs{}, relogio())
	return a
}

func (a *ambienteMed) categoriaID() string {
	for id := range a.cats.itens {
		return id.String()
	}
	return ""
}

func umaImagem() []ImagemUpload {
	return []ImagemUpload{{Filename: "caixa.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}}}
}

func criarRequest(a *ambienteMed, nome string, estoque int, validade string) dto.MedicamentoCreateRequest {
	return dto.MedicamentoCreateRequest{
		Nome:              nome,
		Preco:             decimal.RequireFromString("10.50"),
		QuantidadeEstoque: estoque,
		Validade:          validade,
		CategoriaID:       a.categoriaID(),
	}
}

func TestCriarMedicamentoExigeImagem(t *testing.T) {
	a := novoAmbienteMed()

	_, err := a.catalogo.Criar(context.Background(), ator(), criarRequest(a, "Paracetamol", 10, "2027-01-01"), nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBusinessRule))
	assert.Equal(t, "Pelo menos uma imagem é obrigatória", err.Error())
}

func TestCriarMedicamentoExigeValidadeFutura(t *testing.T) {
	a := novoAmbienteMed()
	ctx := context.Background()

	for _, validade := range []string{"2020-01-01", "2026-06-15"} { // passado e o próprio dia
		_, err := a.catalogo.Criar(ctx, ator(), criarRequest(a, "Paracetamol", 10, validade), umaImagem())
		require.Error(t, err, validade)
		assert.Equal(t, "A data de validade deve ser uma data futura", err.Error())
	}

	_, err := a.catalogo.Criar(ctx, ator(), criarRequest(a, "Paracetamol", 10, "2026-06-16"), umaImagem())
	require.NoError(t, err, "o dia seguinte já é futuro")
}

func TestCriarMedicamentoValidaCategoriaENome(t *testing.T) {
	existente := novoMedicamento("Paracetamol", 10, "10.50")
	a := novoAmbienteMed(existente)
	ctx := context.Background()

	req := criarRequest(a, "Dipirona", 10, "2027-01-01")
	req.CategoriaID = uuid.New().String()
	_, err := a.catalogo.Criar(ctx, ator(), req, umaImagem())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = a.catalogo.Criar(ctx, ator(), criarRequest(a, "paracetamol", 10, "2027-01-01"), umaImagem())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict), "nome duplicado ignora caixa")
}

func TestCriarMedicamentoSalvaImagensEGeraAlertas(t *testing.T) {
	a := novoAmbienteMed()

	resp, err := a.catalogo.Criar(context.Background(), ator(), criarRequest(a, "Dipirona", 3, "2027-01-01"), umaImagem())
	require.NoError(t, err)

	assert.True(t, resp.Ativo)
	require.Len(t, a.store.salvas, 1)
	require.Len(t, a.meds.imagens, 1)

	// Nasceu abaixo do limite: o alerta já existe.
	id := uuid.MustParse(resp.ID)
	require.Len(t, a.alertaDB.doTipo(id, model.AlertaEstoqueBaixo), 1)
}

func TestAtualizarMedicamentoAceitaValidadePassada(t *testing.T) {
	med := novoMedicamento("Lote Antigo", 10, "10.50")
	a := novoAmbienteMed(med)

	req := dto.MedicamentoUpdateRequest{
		Nome:        "Lote Antigo",
		Preco:       decimal.RequireFromString("11.00"),
		Validade:    "2026-01-01", // registros históricos podem já estar vencidos
		CategoriaID: a.categoriaID(),
	}
	resp, err := a.catalogo.Atualizar(context.Background(), ator(), med.ID, req, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Validade)
	assert.Equal(t, "2026-01-01", *resp.Validade)
	assert.Empty(t, a.store.removidas, "sem novas imagens, as atuais ficam")
}

func TestAtualizarMedicamentoTrocaImagensQuandoEnviadas(t *testing.T) {
	med := novoMedicamento("Paracetamol", 10, "10.50")
	a := novoAmbienteMed(med)

	req := dto.MedicamentoUpdateRequest{
		Nome:        "Paracetamol",
		Preco:       med.Preco,
		Validade:    "2027-06-01",
		CategoriaID: a.categoriaID(),
	}
	_, err := a.catalogo.Atualizar(context.Background(), ator(), med.ID, req, umaImagem())
	require.NoError(t, err)

	assert.Contains(t, a.store.removidas, med.ID.String())
	require.Len(t, a.store.salvas, 1)
}

func TestInativarMarcaAlertasComoLidos(t *testing.T) {
	med := novoMedicamento("Dipirona", 3, "10.50")
	a := novoAmbienteMed(med)
	ctx := context.Background()

	require.NoError(t, a.alertas.VerificarEstoqueBaixo(ctx))
	require.Len(t, a.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo), 1)

	resp, err := a.catalogo.AtualizarStatus(ctx, ator(), med.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Ativo)

	alertas := a.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, alertas, 1, "inativar preserva o histórico de alertas")
	assert.True(t, alertas[0].Lido)
}

func TestReativarApagaEReavaliaAlertas(t *testing.T) {
	med := novoMedicamento("Dipirona", 3, "10.50")
	a := novoAmbienteMed(med)
	ctx := context.Background()

	require.NoError(t, a.alertas.VerificarEstoqueBaixo(ctx))
	_, err := a.catalogo.AtualizarStatus(ctx, ator(), med.ID, false)
	require.NoError(t, err)

	resp, err := a.catalogo.AtualizarStatus(ctx, ator(), med.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.Ativo)

	// Os lidos antigos foram apagados; sobra só o alerta fresco do estado atual.
	alertas := a.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, alertas, 1)
	assert.False(t, alertas[0].Lido)
}

func TestExcluirMedicamentoComVendas(t *testing.T) {
	med := novoMedicamento("Paracetamol", 10, "10.50")
	a := novoAmbienteMed(med)
	ctx := context.Background()

	venda := &model.Venda{
		ClienteID: uuid.New(),
		Status:    model.VendaConcluida,
		Itens:     []model.ItemVenda{{MedicamentoID: med.ID, Quantidade: 1}},
	}
	require.NoError(t, a.vendaDB.CreateTx(nil, venda))

	err := a.catalogo.Excluir(ctx, ator(), med.ID)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBusinessRule))
	assert.Equal(t,
		"O medicamento 'Paracetamol' possui vendas registradas e não pode ser excluído. Recomenda-se inativá-lo.",
		err.Error())

	_, err = a.meds.FindByID(ctx, med.ID)
	require.NoError(t, err, "o registro continua lá")
}

func TestExcluirMedicamentoLimpaAlertasEImagens(t *testing.T) {
	med := novoMedicamento("Encalhado", 2, "10.50")
	a := novoAmbienteMed(med)
	ctx := context.Background()

	require.NoError(t, a.alertas.VerificarEstoqueBaixo(ctx))
	require.NoError(t, a.meds.AddImagens(ctx, []model.MedicamentoImagem{{MedicamentoID: med.ID, URL: "/uploads/x.png"}}))

	require.NoError(t, a.catalogo.Excluir(ctx, ator(), med.ID))

	assert.Empty(t, a.alertaDB.itens)
	assert.Empty(t, a.meds.imagens)
	assert.Contains(t, a.store.removidas, med.ID.String())

	_, err := a.meds.FindByID(ctx, med.ID)
	require.Error(t, err)
}

func TestListPaginacaoPadrao(t *testing.T) {
	a := novoAmbienteMed(novoMedicamento("Paracetamol", 10, "10.50"))

	resp, err := a.catalogo.List(context.Background(), dto.MedicamentoFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	assert.EqualValues(t, 1, resp.Total)
}
