package service

import (
	"context"
	"testing"

	"farmacia/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstoqueBaixoNaoDuplicaEnquantoNaoLido(t *testing.T) {
	med := novoMedicamento("Dipirona", 4, "8.00")
	amb := novoAmbiente(med)

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(context.Background()))
	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(context.Background()))
	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(context.Background()))

	alertas := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, alertas, 1, "alerta não lido bloqueia a criação de outro do mesmo tipo")
	assert.False(t, alertas[0].Lido)
	assert.Equal(t, "Estoque baixo: 4 un.", alertas[0].Mensagem)
	assert.Equal(t, "Dipirona", alertas[0].MedicamentoNome)
}

func TestEstoqueBaixoRecorreDepoisDeLido(t *testing.T) {
	med := novoMedicamento("Dipirona", 4, "8.00")
	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))
	primeiro := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)[0]

	require.NoError(t, amb.alertas.MarcarComoLido(ctx, primeiro.ID))

	// Ainda abaixo do limite: o próximo sweep cria um registro NOVO.
	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))

	alertas := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, alertas, 2)
	assert.True(t, alertas[0].Lido)
	assert.False(t, alertas[1].Lido)
	assert.NotEqual(t, alertas[0].ID, alertas[1].ID)
}

func TestSweepMarcaLidosQuandoEstoqueReposto(t *testing.T) {
	med := novoMedicamento("Dipirona", 4, "8.00")
	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))

	med.QuantidadeEstoque = 10 // exatamente no limite conta como seguro
	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))

	alertas := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, alertas, 1)
	assert.True(t, alertas[0].Lido)
}

func TestValidadeProximaDentroDaJanela(t *testing.T) {
	dentro := novoMedicamento("Vence Logo", 50, "10.00")
	v1 := dias(15)
	dentro.Validade = &v1

	fora := novoMedicamento("Vence Longe", 50, "10.00")
	v2 := dias(90)
	fora.Validade = &v2

	vencido := novoMedicamento("Ja Vencido", 50, "10.00")
	v3 := dias(-1)
	vencido.Validade = &v3

	amb := novoAmbiente(dentro, fora, vencido)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarValidadeProxima(ctx))

	require.Len(t, amb.alertaDB.doTipo(dentro.ID, model.AlertaValidadeProxima), 1)
	assert.Equal(t, "Validade próxima: "+v1.Format("02/01/2006"),
		amb.alertaDB.doTipo(dentro.ID, model.AlertaValidadeProxima)[0].Mensagem)

	assert.Empty(t, amb.alertaDB.doTipo(fora.ID, model.AlertaValidadeProxima))
	// Vencido tem alerta próprio, não de validade próxima.
	assert.Empty(t, amb.alertaDB.doTipo(vencido.ID, model.AlertaValidadeProxima))
}

func TestVencidoGeraAlertaProprio(t *testing.T) {
	vencido := novoMedicamento("Ja Vencido", 50, "10.00")
	v := dias(-3)
	vencido.Validade = &v

	amb := novoAmbiente(vencido)
	require.NoError(t, amb.alertas.VerificarVencidos(context.Background()))

	alertas := amb.alertaDB.doTipo(vencido.ID, model.AlertaValidadeVencida)
	require.Len(t, alertas, 1)
	assert.Equal(t, "Medicamento vencido em: "+v.Format("02/01/2006"), alertas[0].Mensagem)
}

func TestAlertasDeValidadeNaoSaoLimposAutomaticamente(t *testing.T) {
	med := novoMedicamento("Lote Antigo", 50, "10.00")
	v := dias(-3)
	med.Validade = &v

	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.GerarAlertas(ctx))
	require.Len(t, amb.alertaDB.doTipo(med.ID, model.AlertaValidadeVencida), 1)

	// Mesmo trocando a validade para o futuro, o sweep não marca nem apaga:
	// só a leitura explícita resolve alertas de validade.
	nova := dias(180)
	med.Validade = &nova
	require.NoError(t, amb.alertas.GerarAlertas(ctx))

	alertas := amb.alertaDB.doTipo(med.ID, model.AlertaValidadeVencida)
	require.Len(t, alertas, 1)
	assert.False(t, alertas[0].Lido)
}

func TestMarcarComoLidoIdempotenteEInexistente(t *testing.T) {
	med := novoMedicamento("Dipirona", 4, "8.00")
	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))
	alerta := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)[0]

	require.NoError(t, amb.alertas.MarcarComoLido(ctx, alerta.ID))
	require.NoError(t, amb.alertas.MarcarComoLido(ctx, alerta.ID), "marcar duas vezes não é erro")

	err := amb.alertas.MarcarComoLido(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestListagemDescartaMedicamentoApagadoEOrdenaPorNome(t *testing.T) {
	zebra := novoMedicamento("zebra", 2, "1.00")
	abacate := novoMedicamento("Abacate", 3, "1.00")
	fantasma := novoMedicamento("Fantasma", 1, "1.00")

	amb := novoAmbiente(zebra, abacate, fantasma)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))
	require.Len(t, amb.alertaDB.itens, 3)

	// Medicamento apagado: o alerta órfão some das listagens.
	require.NoError(t, amb.meds.Delete(ctx, fantasma.ID))

	lista, err := amb.alertas.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, lista, 2)
	assert.Equal(t, "Abacate", lista[0].MedicamentoNome)
	assert.Equal(t, "zebra", lista[1].MedicamentoNome, "ordenação ignora caixa")
}

func TestListagensDeValidadeSomenteAtivos(t *testing.T) {
	med := novoMedicamento("Inativo Com Alerta", 50, "10.00")
	v := dias(10)
	med.Validade = &v

	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarValidadeProxima(ctx))
	med.Ativo = false

	proximos, err := amb.alertas.FindValidadeProxima(ctx)
	require.NoError(t, err)
	assert.Empty(t, proximos, "inativos ficam fora das listas de validade")

	// Na lista geral o alerta continua visível.
	todos, err := amb.alertas.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestListagensPorTipoMostramSomenteNaoLidos(t *testing.T) {
	med := novoMedicamento("Dipirona", 4, "8.00")
	v := dias(10)
	med.Validade = &v

	amb := novoAmbiente(med)
	ctx := context.Background()

	require.NoError(t, amb.alertas.GerarAlertas(ctx))

	baixo, err := amb.alertas.FindEstoqueBaixo(ctx)
	require.NoError(t, err)
	require.Len(t, baixo, 1)

	require.NoError(t, amb.alertas.MarcarComoLido(ctx, uuid.MustParse(baixo[0].ID)))

	baixo, err = amb.alertas.FindEstoqueBaixo(ctx)
	require.NoError(t, err)
	assert.Empty(t, baixo, "alerta lido sai do painel por tipo")

	proximos, err := amb.alertas.FindValidadeProxima(ctx)
	require.NoError(t, err)
	require.Len(t, proximos, 1)
	require.NoError(t, amb.alertas.MarcarComoLido(ctx, uuid.MustParse(proximos[0].ID)))

	proximos, err = amb.alertas.FindValidadeProxima(ctx)
	require.NoError(t, err)
	assert.Empty(t, proximos)

	// O histórico geral continua mostrando os dois, agora lidos.
	todos, err := amb.alertas.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.True(t, todos[0].Lido)
	assert.True(t, todos[1].Lido)
}

func TestGerarAlertasCombinaEstoqueEValidade(t *testing.T) {
	med := novoMedicamento("Dipirona", 5, "8.00")
	v := dias(10)
	med.Validade = &v

	amb := novoAmbiente(med)
	require.NoError(t, amb.alertas.GerarAlertas(context.Background()))

	baixo := amb.alertaDB.doTipo(med.ID, model.AlertaEstoqueBaixo)
	require.Len(t, baixo, 1)
	assert.False(t, baixo[0].Lido)

	proximos := amb.alertaDB.doTipo(med.ID, model.AlertaValidadeProxima)
	require.Len(t, proximos, 1)
	assert.False(t, proximos[0].Lido)

	assert.Empty(t, amb.alertaDB.doTipo(med.ID, model.AlertaValidadeVencida),
		"ainda não vencido não ganha alerta de vencido")
}

func TestGerarAlertasRepetidoNaoMudaNada(t *testing.T) {
	baixo := novoMedicamento("Dipirona", 4, "8.00")
	proximo := novoMedicamento("Vence Logo", 50, "10.00")
	v1 := dias(15)
	proximo.Validade = &v1
	vencido := novoMedicamento("Ja Vencido", 50, "10.00")
	v2 := dias(-2)
	vencido.Validade = &v2

	amb := novoAmbiente(baixo, proximo, vencido)
	ctx := context.Background()

	require.NoError(t, amb.alertas.GerarAlertas(ctx))
	antes, err := amb.alertas.NaoLidosCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, antes)
	registros := len(amb.alertaDB.itens)

	require.NoError(t, amb.alertas.GerarAlertas(ctx))
	depois, err := amb.alertas.NaoLidosCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, antes, depois)
	assert.Equal(t, registros, len(amb.alertaDB.itens), "nenhum registro novo")
}

func TestNaoLidosCount(t *testing.T) {
	medA := novoMedicamento("A", 2, "1.00")
	medB := novoMedicamento("B", 3, "1.00")
	amb := novoAmbiente(medA, medB)
	ctx := context.Background()

	require.NoError(t, amb.alertas.VerificarEstoqueBaixo(ctx))
	total, err := amb.alertas.NaoLidosCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
