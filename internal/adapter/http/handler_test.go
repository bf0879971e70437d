package httpadapter

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/adapter/usecase"
	"crowdfund/internal/core/domain"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type principal struct {
	key  *ecdsa.PrivateKey
	addr domain.Address
}

func newPrincipal(t *testing.T) principal {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return principal{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

type server struct {
	t       *testing.T
	store   *memory.Store
	clock   *fixedClock
	handler http.Handler

	deployer, creator, alice, bob principal
	feeSink                       domain.Address
}

func newServer(t *testing.T, opts Options) *server {
	t.Helper()
	s := &server{
		t:        t,
		store:    memory.NewStore(),
		clock:    &fixedClock{now: t0},
		deployer: newPrincipal(t),
		creator:  newPrincipal(t),
		alice:    newPrincipal(t),
		bob:      newPrincipal(t),
		feeSink:  domain.Address{0xfe},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := usecase.Ports{
		Tx:        s.store,
		Admins:    s.store.Admins(),
		Campaigns: s.store.Campaigns(),
		Events:    s.store.Events(),
		Ledger:    s.store.Ledger(),
		Clock:     s.clock,
	}
	registry := usecase.NewRegistryService(p, logger)
	require.NoError(t, registry.Bootstrap(context.Background(), s.deployer.addr))
	factory, err := usecase.NewFactoryService(usecase.FactoryConfig{Address: domain.Address{0xfa}, FeeBps: 100}, p, logger)
	require.NoError(t, err)
	campaigns, err := usecase.NewCampaignService(s.feeSink, p, logger)
	require.NoError(t, err)

	opts.Clock = s.clock
	s.handler = NewHandler(Services{
		Registry:  registry,
		Factory:   factory,
		Campaigns: campaigns,
		Events:    usecase.NewEventService(s.store.Events()),
	}, opts, logger).Router()
	return s
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *server) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *server) signed(method, path string, as principal, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(s.signedRequest(method, path, as, body))
}

func (s *server) signedRequest(method, path string, as principal, body any) *http.Request {
	s.t.Helper()
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	// identical requests signed in the same second share a signature
	s.clock.Advance(time.Second)
	require.NoError(s.t, SignRequest(req, as.key, s.clock.Now()))
	return req
}

func (s *server) mint(owner domain.Address, amount uint64) {
	require.NoError(s.t, s.store.Ledger().Mint(context.Background(), owner, amount))
}

func (s *server) balance(owner domain.Address) uint64 {
	b, err := s.store.Ledger().BalanceOf(context.Background(), owner)
	require.NoError(s.t, err)
	return b
}

func (s *server) createCampaign(goal string, deadline time.Time) campaignResponse {
	s.t.Helper()
	rec := s.signed(http.MethodPost, "/api/v1/campaigns", s.deployer, map[string]any{
		"creator":     s.creator.addr.Hex(),
		"goal_amount": goal,
		"deadline":    deadline,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[campaignResponse](s.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rec).Error
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	s := newServer(t, Options{})
	s.mint(s.alice.addr, 400)
	s.mint(s.bob.addr, 700)

	c := s.createCampaign("1000", t0.Add(time.Hour))
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "active", c.State.String())

	rec := s.signed(http.MethodPost, "/api/v1/campaigns/1/pledge", s.alice, map[string]string{"amount": "400"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/pledge", s.bob, map[string]string{"amount": "700"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, uint64(1100), decode[campaignResponse](t, rec).RaisedAmount)

	rec = s.get("/api/v1/campaigns/1/contributions/" + s.alice.addr.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(400), decode[contributionResponse](t, rec).Amount)

	// anyone may finalize once the deadline passed
	s.clock.Advance(2 * time.Hour)
	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/finalize", s.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.StateSuccessful, decode[campaignResponse](t, rec).State)

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/withdraw", s.bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/withdraw", s.creator, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settled := decode[settlementResponse](t, rec)
	assert.Equal(t, uint64(1089), settled.Payout)
	assert.Equal(t, uint64(11), settled.Fee)
	assert.Equal(t, uint64(1089), s.balance(s.creator.addr))
	assert.Equal(t, uint64(11), s.balance(s.feeSink))

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/withdraw", s.creator, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_processed", errorCode(t, rec))

	rec = s.get("/api/v1/events?after=0&limit=100")
	require.Equal(t, http.StatusOK, rec.Code)
	var kinds []domain.EventKind
	for _, e := range decode[[]eventResponse](t, rec) {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []domain.EventKind{
		domain.EventAdminAdded,
		domain.EventCampaignCreated,
		domain.EventPledgeReceived,
		domain.EventPledgeReceived,
		domain.EventCampaignFinalized,
		domain.EventWithdrawal,
	}, kinds)
}

func TestRefundOverHTTP(t *testing.T) {
	s := newServer(t, Options{})
	s.mint(s.alice.addr, 300)
	s.createCampaign("1000", t0.Add(time.Hour))

	rec := s.signed(http.MethodPost, "/api/v1/campaigns/1/pledge", s.alice, map[string]string{"amount": "300"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/refund", s.alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", errorCode(t, rec))

	s.clock.Advance(2 * time.Hour)
	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/finalize", s.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.StateFailed, decode[campaignResponse](t, rec).State)

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/refund", s.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, uint64(300), decode[refundResponse](t, rec).Amount)
	assert.Equal(t, uint64(300), s.balance(s.alice.addr))

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/refund", s.alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_processed", errorCode(t, rec))

	rec = s.signed(http.MethodPost, "/api/v1/campaigns/1/refund", s.bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_contribution", errorCode(t, rec))
}

func TestCreateCampaignValidation(t *testing.T) {
	s := newServer(t, Options{})

	tests := []struct {
		name   string
		as     principal
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "not an admin",
			as:     s.alice,
			body:   map[string]any{"creator": s.creator.addr.Hex(), "goal_amount": "10", "deadline": t0.Add(time.Hour)},
			status: http.StatusForbidden,
			code:   "unauthorized",
		},
		{
			name:   "zero goal",
			as:     s.deployer,
			body:   map[string]any{"creator": s.creator.addr.Hex(), "goal_amount": "0", "deadline": t0.Add(time.Hour)},
			status: http.StatusBadRequest,
			code:   "invalid_goal",
		},
		{
			name:   "deadline now",
			as:     s.deployer,
			body:   map[string]any{"creator": s.creator.addr.Hex(), "goal_amount": "10", "deadline": t0},
			status: http.StatusBadRequest,
			code:   "invalid_deadline",
		},
		{
			name:   "bad creator",
			as:     s.deployer,
			body:   map[string]any{"creator": "0x1234", "goal_amount": "10", "deadline": t0.Add(time.Hour)},
			status: http.StatusBadRequest,
			code:   "invalid_address",
		},
		{
			name:   "unknown field",
			as:     s.deployer,
			body:   map[string]any{"creator": s.creator.addr.Hex(), "goal_amount": "10", "deadline": t0.Add(time.Hour), "fee": 0},
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.signed(http.MethodPost, "/api/v1/campaigns", tt.as, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	rec := s.get("/api/v1/campaigns")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]campaignResponse](t, rec))
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t, Options{})

	rec := s.signed(http.MethodPost, "/api/v1/admins", s.deployer, map[string]string{"address": s.alice.addr.Hex()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.get("/api/v1/admins/" + s.alice.addr.Hex())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[isAdminResponse](t, rec).IsAdmin)

	rec = s.signed(http.MethodPost, "/api/v1/admins", s.deployer, map[string]string{"address": s.alice.addr.Hex()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_admin", errorCode(t, rec))

	rec = s.signed(http.MethodPost, "/api/v1/registry/pause", s.alice, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.signed(http.MethodPost, "/api/v1/campaigns", s.deployer, map[string]any{
		"creator": s.creator.addr.Hex(), "goal_amount": "10", "deadline": t0.Add(time.Hour),
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "paused", errorCode(t, rec))

	rec = s.signed(http.MethodPost, "/api/v1/registry/unpause", s.deployer, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.signed(http.MethodDelete, "/api/v1/admins/"+s.deployer.addr.Hex(), s.alice, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.signed(http.MethodDelete, "/api/v1/admins/"+s.alice.addr.Hex(), s.alice, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "last_admin_protected", errorCode(t, rec))

	rec = s.get("/api/v1/registry")
	require.Equal(t, http.StatusOK, rec.Code)
	reg := decode[registryResponse](t, rec)
	assert.False(t, reg.Paused)
	require.Len(t, reg.Admins, 1)
	assert.Equal(t, s.alice.addr.Hex(), reg.Admins[0].Address)
}

func TestAuthentication(t *testing.T) {
	s := newServer(t, Options{SignatureMaxSkew: time.Minute})
	addAdmin := map[string]string{"address": s.alice.addr.Hex()}

	t.Run("unsigned", func(t *testing.T) {
		body, _ := json.Marshal(addAdmin)
		rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/admins", bytes.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", errorCode(t, rec))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		body, _ := json.Marshal(addAdmin)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admins", bytes.NewReader(body))
		require.NoError(t, SignRequest(req, s.deployer.key, s.clock.Now().Add(-2*time.Minute)))
		rec := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed signature", func(t *testing.T) {
		req := s.signedRequest(http.MethodPost, "/api/v1/admins", s.deployer, addAdmin)
		req.Header.Set(HeaderSignature, "0xdeadbeef")
		rec := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered body changes signer", func(t *testing.T) {
		req := s.signedRequest(http.MethodPost, "/api/v1/admins", s.deployer, addAdmin)
		other, _ := json.Marshal(map[string]string{"address": s.bob.addr.Hex()})
		req.Body = io.NopCloser(bytes.NewReader(other))
		rec := s.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("replay in another encoding", func(t *testing.T) {
		s.mint(s.alice.addr, 1000)
		c := s.createCampaign("5000", s.clock.Now().Add(time.Hour))
		path := fmt.Sprintf("/api/v1/campaigns/%d/pledge", c.ID)
		body := map[string]string{"amount": "100"}

		orig := s.signedRequest(http.MethodPost, path, s.alice, body)
		ts, sig := orig.Header.Get(HeaderTimestamp), orig.Header.Get(HeaderSignature)
		rec := s.do(orig)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		raw, err := hexutil.Decode(sig)
		require.NoError(t, err)
		lowV := bytes.Clone(raw)
		lowV[crypto.RecoveryIDOffset] -= 27

		// (r, N-s) with the flipped recovery id recovers the same signer
		highS := bytes.Clone(lowV)
		highS[crypto.RecoveryIDOffset] ^= 1
		sv := new(big.Int).SetBytes(raw[32:64])
		sv.Sub(crypto.S256().Params().N, sv)
		sv.FillBytes(highS[32:64])

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		for name, variant := range map[string]string{
			"uppercase hex": "0x" + strings.ToUpper(sig[2:]),
			"recovery id 0": hexutil.Encode(lowV),
			"high s":        hexutil.Encode(highS),
			"uppercase 0X":  "0X" + sig[2:],
		} {
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
			req.Header.Set(HeaderTimestamp, ts)
			req.Header.Set(HeaderSignature, variant)
			rec := s.do(req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		}

		assert.Equal(t, uint64(900), s.balance(s.alice.addr))
		got := decode[campaignResponse](t, s.get(path[:len(path)-len("/pledge")]))
		assert.Equal(t, uint64(100), got.RaisedAmount)
	})

	t.Run("replay", func(t *testing.T) {
		req := s.signedRequest(http.MethodPost, "/api/v1/registry/pause", s.deployer, nil)
		replay := req.Clone(context.Background())
		replay.Body = io.NopCloser(bytes.NewReader(nil))

		rec := s.do(req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		rec = s.do(replay)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRecoverSignerMatchesKey(t *testing.T) {
	p := newPrincipal(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/7/finalize", nil)
	require.NoError(t, SignRequest(req, p.key, t0))

	payload := SigningPayload(http.MethodPost, "/api/v1/campaigns/7/finalize", req.Header.Get(HeaderTimestamp), nil)
	got, _, err := recoverSigner(payload, req.Header.Get(HeaderSignature))
	require.NoError(t, err)
	assert.Equal(t, p.addr, got)
}

func TestNotFoundAndBadIDs(t *testing.T) {
	s := newServer(t, Options{})

	rec := s.get("/api/v1/campaigns/42")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "campaign_not_found", errorCode(t, rec))

	rec = s.get("/api/v1/campaigns/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get("/api/v1/events?after=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get("/api/v1/admins/not-an-address")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_address", errorCode(t, rec))
}

func TestRateLimit(t *testing.T) {
	s := newServer(t, Options{RateLimitRPS: 1, RateLimitBurst: 2})

	statuses := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/registry", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		statuses = append(statuses, s.do(req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registry", nil)
	req.RemoteAddr = "192.0.2.11:4000"
	assert.Equal(t, http.StatusOK, s.do(req).Code)
}

func TestKeyLimiterDisabled(t *testing.T) {
	l := newKeyLimiter(0, 0)
	assert.Nil(t, l)
	assert.True(t, l.allow("anyone", t0))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, Options{})
	rec := s.get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
