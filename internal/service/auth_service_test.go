package service

import (
	"context"
	"testing"

	"farmacia/internal/config"
	"farmacia/internal/dto"
	"farmacia/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ambienteAuth(t *testing.T, usuarios ...*model.Usuario) (AuthService, *stubUsuarioRepo) {
	t.Helper()
	repo := newStubUsuarioRepo(usuarios...)
	cfg := &config.Config{JWTSecret: "segredo-de-teste", JWTExpirationHours: 8}
	return NewAuthService(repo, &noopLogs{}, cfg), repo
}

func usuarioComSenha(t *testing.T, email, senha, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.Usuario{
		Nome:         "Usuário Teste",
		Email:        email,
		PasswordHash: string(hash),
		Rol:          rol,
		Ativo:        true,
	}
}

func TestLoginEmiteTokenComClaims(t *testing.T) {
	user := usuarioComSenha(t, "admin@farmacia.com", "senha12345", model.RolAdmin)
	svc, _ := ambienteAuth(t, user)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "Admin@Farmacia.com", // busca por email não diferencia caixa
		Senha: "senha12345",
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdmin, resp.User.Rol)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("segredo-de-teste"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, model.RolAdmin, claims["rol"])
	assert.Equal(t, "admin@farmacia.com", claims["email"])
}

func TestLoginRecusaSenhaErradaEDesconhecidos(t *testing.T) {
	user := usuarioComSenha(t, "admin@farmacia.com", "senha12345", model.RolAdmin)
	svc, _ := ambienteAuth(t, user)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "admin@farmacia.com", Senha: "errada"})
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())

	// Email inexistente produz a mesma mensagem: nada vaza sobre quem existe.
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ninguem@farmacia.com", Senha: "senha12345"})
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())
}

func TestLoginRecusaUsuarioDesativado(t *testing.T) {
	user := usuarioComSenha(t, "vend@farmacia.com", "senha12345", model.RolVendedor)
	user.Ativo = false
	svc, _ := ambienteAuth(t, user)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vend@farmacia.com", Senha: "senha12345"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBusinessRule))
}

func TestCriarUsuarioRecusaEmailDuplicado(t *testing.T) {
	user := usuarioComSenha(t, "admin@farmacia.com", "senha12345", model.RolAdmin)
	svc, repo := ambienteAuth(t, user)
	ctx := context.Background()

	_, err := svc.CriarUsuario(ctx, ator(), dto.CriarUsuarioRequest{
		Nome:  "Outro",
		Email: "ADMIN@farmacia.com",
		Senha: "outrasenha",
		Rol:   model.RolVendedor,
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))

	novo, err := svc.CriarUsuario(ctx, ator(), dto.CriarUsuarioRequest{
		Nome:  "Vendedor",
		Email: "vend@farmacia.com",
		Senha: "outrasenha",
		Rol:   model.RolVendedor,
	})
	require.NoError(t, err)
	assert.True(t, novo.Ativo)

	// A senha nunca é guardada em claro.
	criado, err := repo.FindByEmail(ctx, "vend@farmacia.com")
	require.NoError(t, err)
	assert.NotEqual(t, "outrasenha", criado.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(criado.PasswordHash), []byte("outrasenha")))
}

func TestListarUsuariosFiltraInativos(t *testing.T) {
	ativo := usuarioComSenha(t, "a@farmacia.com", "senha12345", model.RolAdmin)
	inativo := usuarioComSenha(t, "b@farmacia.com", "senha12345", model.RolVendedor)
	inativo.Ativo = false

	svc, _ := ambienteAuth(t, ativo, inativo)
	ctx := context.Background()

	somenteAtivos, err := svc.ListarUsuarios(ctx, false)
	require.NoError(t, err)
	assert.Len(t, somenteAtivos, 1)

	todos, err := svc.ListarUsuarios(ctx, true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestDesativarEReativarUsuario(t *testing.T) {
	user := usuarioComSenha(t, "vend@farmacia.com", "senha12345", model.RolVendedor)
	svc, _ := ambienteAuth(t, user)
	ctx := context.Background()

	require.NoError(t, svc.DesativarUsuario(ctx, ator(), user.ID))
	_, err := svc.Login(ctx, dto.LoginRequest{Email: "vend@farmacia.com", Senha: "senha12345"})
	require.Error(t, err)

	require.NoError(t, svc.ReativarUsuario(ctx, ator(), user.ID))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "vend@farmacia.com", Senha: "senha12345"})
	require.NoError(t, err)
}

func TestAtualizarUsuarioTrocaSenha(t *testing.T) {
	user := usuarioComSenha(t, "vend@farmacia.com", "senha12345", model.RolVendedor)
	svc, _ := ambienteAuth(t, user)
	ctx := context.Background()

	_, err := svc.AtualizarUsuario(ctx, ator(), user.ID, dto.AtualizarUsuarioRequest{Senha: "novasenha123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "vend@farmacia.com", Senha: "senha12345"})
	require.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "vend@farmacia.com", Senha: "novasenha123"})
	require.NoError(t, err)
}
