//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Escenarios:
//   - Ciclo completo de venta (login → abrir caja → venta → stock descontado)
//   - Venta pendiente de mesa (registrar → completar → mesa liberada)
//   - Venta rechazada por stock insuficiente
//   - Devolución parcial: restaura stock y respeta el tope por línea
//   - Una sola sesión de caja abierta por usuario

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fondapos/internal/config"
	"fondapos/internal/infra"
	"fondapos/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("fondapos_test"),
		tcPostgres.WithUsername("fondapos"),
		tcPostgres.WithPassword("fondapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		NombreLocal:        "Fonda E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("fondapos2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	res := db.Exec(`INSERT INTO usuarios (username, nombre, email, password_hash, rol)
		VALUES ('admin@e2e.test', 'Admin E2E', 'admin@e2e.test', ?, 'administrador')
		ON CONFLICT DO NOTHING`, string(hash))
	require.NoError(t, res.Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "fondapos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// crearSimpleConStock registra un producto de inventario y un vendible simple
// vinculado 1:1 a ese producto. Devuelve (productoID, simpleID).
func crearSimpleConStock(t *testing.T, env *testEnv, nombre, codigo string, stock int) (string, string) {
	t.Helper()
	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo":         codigo,
			"nombre":         nombre,
			"unidad_medida":  "unidad",
			"stock_actual":   stock,
			"stock_minimo":   0,
			"costo_unitario": 100.0,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	simpleResp := do(t, env.server, "POST", "/v1/simples",
		jsonBody(t, map[string]any{
			"nombre":           nombre,
			"precio":           250.0,
			"producto_id":      prod.ID,
			"costo_por_unidad": 1,
		}), env.token)
	require.Equal(t, http.StatusCreated, simpleResp.StatusCode)
	var simple struct {
		ID string `json:"id"`
	}
	decodeJSON(t, simpleResp, &simple)
	return prod.ID, simple.ID
}

func stockActual(t *testing.T, env *testEnv, productoID string) string {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/productos/"+productoID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		StockActual string `json:"stock_actual"`
	}
	decodeJSON(t, resp, &prod)
	return prod.StockActual
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompletoDeVenta(t *testing.T) {
	env := setupTestEnv(t)

	prodID, simpleID := crearSimpleConStock(t, env, "Gaseosa 500ml", "GAS-500", 20)

	cajaResp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_apertura": 1000.0}), env.token)
	require.Equal(t, http.StatusCreated, cajaResp.StatusCode)
	var caja struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cajaResp, &caja)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"tipo": "simple", "referencia_id": simpleID, "cantidad": 3, "precio_unitario": 250.0},
			},
			"metodo_pago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID           string  `json:"id"`
		Estado       string  `json:"estado"`
		Total        string  `json:"total"`
		SesionCajaID *string `json:"sesion_caja_id"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "completada", venta.Estado)
	assert.Equal(t, "750", venta.Total)
	require.NotNil(t, venta.SesionCajaID)
	assert.Equal(t, caja.ID, *venta.SesionCajaID)

	assert.Equal(t, "17", stockActual(t, env, prodID))

	// El flujo de caja registra la entrada de la venta
	flujoResp := do(t, env.server, "GET", "/v1/flujo-caja", nil, env.token)
	require.Equal(t, http.StatusOK, flujoResp.StatusCode)
	var flujos struct {
		Data []struct {
			Direccion string `json:"direccion"`
			Categoria string `json:"categoria"`
			Monto     string `json:"monto"`
		} `json:"data"`
	}
	decodeJSON(t, flujoResp, &flujos)
	require.Len(t, flujos.Data, 1)
	assert.Equal(t, "entrada", flujos.Data[0].Direccion)
	assert.Equal(t, "ventas", flujos.Data[0].Categoria)
}

func TestE2E_VentaPendienteDeMesa(t *testing.T) {
	env := setupTestEnv(t)

	prodID, simpleID := crearSimpleConStock(t, env, "Milanesa", "MIL-001", 10)

	mesaResp := do(t, env.server, "POST", "/v1/mesas",
		jsonBody(t, map[string]any{"numero": 4, "capacidad": 4}), env.token)
	require.Equal(t, http.StatusCreated, mesaResp.StatusCode)
	var mesa struct {
		ID string `json:"id"`
	}
	decodeJSON(t, mesaResp, &mesa)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"tipo": "simple", "referencia_id": simpleID, "cantidad": 2, "precio_unitario": 250.0},
			},
			"metodo_pago": "efectivo",
			"pendiente":   true,
			"mesa_id":     mesa.ID,
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "pendiente", venta.Estado)

	// Sin efectos hasta completar
	assert.Equal(t, "10", stockActual(t, env, prodID))

	compResp := do(t, env.server, "POST", "/v1/ventas/"+venta.ID+"/completar", nil, env.token)
	require.Equal(t, http.StatusOK, compResp.StatusCode)
	var completada struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, compResp, &completada)
	assert.Equal(t, "completada", completada.Estado)
	assert.Equal(t, "8", stockActual(t, env, prodID))

	// La mesa vuelve a estar libre
	mesasResp := do(t, env.server, "GET", "/v1/mesas", nil, env.token)
	require.Equal(t, http.StatusOK, mesasResp.StatusCode)
	var mesas []struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, mesasResp, &mesas)
	require.Len(t, mesas, 1)
	assert.Equal(t, "libre", mesas[0].Estado)
}

func TestE2E_VentaRechazadaPorStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID, simpleID := crearSimpleConStock(t, env, "Empanada", "EMP-001", 2)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"tipo": "simple", "referencia_id": simpleID, "cantidad": 5, "precio_unitario": 250.0},
			},
			"metodo_pago": "efectivo",
		}), env.token)
	assert.Equal(t, http.StatusConflict, ventaResp.StatusCode)
	ventaResp.Body.Close()

	// Nada se descontó
	assert.Equal(t, "2", stockActual(t, env, prodID))
}

func TestE2E_DevolucionParcialRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID, simpleID := crearSimpleConStock(t, env, "Agua Mineral", "AGU-001", 10)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"tipo": "simple", "referencia_id": simpleID, "cantidad": 3, "precio_unitario": 250.0},
			},
			"metodo_pago": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID    string `json:"id"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.Len(t, venta.Items, 1)
	assert.Equal(t, "7", stockActual(t, env, prodID))

	devResp := do(t, env.server, "POST", "/v1/devoluciones",
		jsonBody(t, map[string]any{
			"venta_id":         venta.ID,
			"items":            []map[string]any{{"venta_item_id": venta.Items[0].ID, "cantidad": 1}},
			"motivo":           "error_de_pedido",
			"metodo_reembolso": "efectivo",
		}), env.token)
	require.Equal(t, http.StatusCreated, devResp.StatusCode)
	var dev struct {
		Tipo                 string `json:"tipo"`
		Estado               string `json:"estado"`
		InventarioRestaurado bool   `json:"inventario_restaurado"`
		Total                string `json:"total"`
	}
	decodeJSON(t, devResp, &dev)
	assert.Equal(t, "parcial", dev.Tipo)
	assert.Equal(t, "completada", dev.Estado)
	assert.True(t, dev.InventarioRestaurado)
	assert.Equal(t, "8", stockActual(t, env, prodID))

	// Tope por línea: ya se devolvió 1 de 3, pedir 3 más debe fallar
	excesoResp := do(t, env.server, "POST", "/v1/devoluciones",
		jsonBody(t, map[string]any{
			"venta_id":         venta.ID,
			"items":            []map[string]any{{"venta_item_id": venta.Items[0].ID, "cantidad": 3}},
			"motivo":           "otro",
			"metodo_reembolso": "efectivo",
		}), env.token)
	assert.Equal(t, http.StatusConflict, excesoResp.StatusCode)
	excesoResp.Body.Close()
	assert.Equal(t, "8", stockActual(t, env, prodID))
}

func TestE2E_UnaSolaSesionDeCajaAbierta(t *testing.T) {
	env := setupTestEnv(t)

	abrir := func() *http.Response {
		return do(t, env.server, "POST", "/v1/caja/abrir",
			jsonBody(t, map[string]any{"monto_apertura": 500.0}), env.token)
	}

	primera := abrir()
	require.Equal(t, http.StatusCreated, primera.StatusCode)
	primera.Body.Close()

	segunda := abrir()
	assert.Equal(t, http.StatusConflict, segunda.StatusCode)
	segunda.Body.Close()

	activaResp := do(t, env.server, "GET", "/v1/caja/activa", nil, env.token)
	require.Equal(t, http.StatusOK, activaResp.StatusCode)
	var activa struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, activaResp, &activa)
	assert.Equal(t, "abierta", activa.Estado)
}
