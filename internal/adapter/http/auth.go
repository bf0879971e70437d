package httpadapter

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Signed requests carry an EIP-191 personal signature over SigningPayload
// and the unix timestamp that went into it. The recovered signer is the
// caller identity passed to the use cases.
const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"

	maxBodyBytes = 1 << 20
)

var errUnauthenticated = errors.New("unauthenticated")

type callerKey struct{}

func withCaller(ctx context.Context, addr domain.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, addr)
}

// callerFrom returns the authenticated principal. Only routes behind
// Authenticator.Middleware have one.
func callerFrom(ctx context.Context) (domain.Address, bool) {
	addr, ok := ctx.Value(callerKey{}).(domain.Address)
	return addr, ok
}

// SigningPayload is the message signed for a request:
// METHOD \n PATH \n TIMESTAMP \n hex(sha256(body)).
func SigningPayload(method, path, timestamp string, body []byte) []byte {
	sum := sha256.Sum256(body)
	return []byte(method + "\n" + path + "\n" + timestamp + "\n" + hex.EncodeToString(sum[:]))
}

// SignRequest signs req with key at now and sets the authentication headers.
// The body is read and replaced so req can still be sent.
func SignRequest(req *http.Request, key *ecdsa.PrivateKey, now time.Time) error {
	var body []byte
	if req.Body != nil {
		var err error
		if body, err = io.ReadAll(req.Body); err != nil {
			return err
		}
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	ts := strconv.FormatInt(now.Unix(), 10)
	sig, err := crypto.Sign(accounts.TextHash(SigningPayload(req.Method, req.URL.Path, ts, body)), key)
	if err != nil {
		return err
	}
	sig[crypto.RecoveryIDOffset] += 27
	req.Header.Set(HeaderTimestamp, ts)
	req.Header.Set(HeaderSignature, hexutil.Encode(sig))
	return nil
}

// recoverSigner returns the signer of payload and the canonical encoding of
// the signature: lowercase hex with the recovery id as 0 or 1. High-S
// signatures are rejected, so one signed message has exactly one accepted
// encoding.
func recoverSigner(payload []byte, sigHex string) (domain.Address, string, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return domain.Address{}, "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return domain.Address{}, "", fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	r, sv := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[crypto.RecoveryIDOffset], r, sv, true) {
		return domain.Address{}, "", errors.New("signature values out of range")
	}
	pub, err := crypto.SigToPub(accounts.TextHash(payload), sig)
	if err != nil {
		return domain.Address{}, "", fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), hex.EncodeToString(sig), nil
}

// Authenticator verifies signed requests. A signature is accepted once in
// any encoding; replays inside the skew window are rejected.
type Authenticator struct {
	clock   port.Clock
	maxSkew time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewAuthenticator(clock port.Clock, maxSkew time.Duration) *Authenticator {
	if maxSkew <= 0 {
		maxSkew = 5 * time.Minute
	}
	return &Authenticator{clock: clock, maxSkew: maxSkew, seen: make(map[string]time.Time)}
}

func (a *Authenticator) authenticate(r *http.Request) (domain.Address, error) {
	ts, sig := r.Header.Get(HeaderTimestamp), r.Header.Get(HeaderSignature)
	if ts == "" || sig == "" {
		return domain.Address{}, fmt.Errorf("%w: missing %s or %s", errUnauthenticated, HeaderSignature, HeaderTimestamp)
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: bad timestamp", errUnauthenticated)
	}
	now := a.clock.Now()
	signedAt := time.Unix(sec, 0)
	if d := now.Sub(signedAt); d > a.maxSkew || d < -a.maxSkew {
		return domain.Address{}, fmt.Errorf("%w: timestamp outside accepted window", errUnauthenticated)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return domain.Address{}, err
	}
	if len(body) > maxBodyBytes {
		return domain.Address{}, fmt.Errorf("%w: body too large", errUnauthenticated)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	signer, canonical, err := recoverSigner(SigningPayload(r.Method, r.URL.Path, ts, body), sig)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: %v", errUnauthenticated, err)
	}
	if !a.remember(canonical, signedAt, now) {
		return domain.Address{}, fmt.Errorf("%w: replayed signature", errUnauthenticated)
	}
	return signer, nil
}

// remember records sig and reports whether it was new. Entries older than
// the skew window are dropped since their timestamps are rejected anyway.
func (a *Authenticator) remember(sig string, signedAt, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	cutoff := now.Add(-a.maxSkew)
	for k, at := range a.seen {
		if at.Before(cutoff) {
			delete(a.seen, k)
		}
	}
	if _, dup := a.seen[sig]; dup {
		return false
	}
	a.seen[sig] = signedAt
	return true
}

// authenticated rejects unsigned or badly signed requests with 401 and
// attaches the signer to the request context otherwise.
func (h *Handler) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := h.auth.authenticate(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}
