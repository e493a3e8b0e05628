package console

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	dekbox "github.com/dekbox/console-go"
)

// API route paths.
const (
	encryptPath        = "/api/encrypt"
	decryptPath        = "/api/decrypt"
	decryptAutoPath    = "/api/decrypt/auto"
	decryptResultPath  = "/api/decrypt/result"
	wrapPath           = "/api/wrap"
	unwrapPath         = "/api/unwrap"
	selfTestPath       = "/api/selftest"
	selfTestVectorPath = "/api/selftest/vector"
	recipientsPath     = "/api/recipients"
	recipientPath      = "/api/recipients/{rid}"
)

// decodeBody decodes a JSON request body into v, rejecting unknown fields so
// a typo in the UI shows up as an error instead of silent defaulting.
func (s *Server) decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, s.cfg.maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf("invalid request body: %v", err)
	}
	return nil
}

// --- encrypt tab ---

type encryptRequest struct {
	Plaintext string        `json:"plaintext"`
	Cipher    dekbox.Cipher `json:"cipher"`
	AADText   string        `json:"aadText"`
	// RIDs restricts the wrap to a subset of the session's recipients.
	// Empty means all of them.
	RIDs []string `json:"rids"`
}

type encryptResponse struct {
	Envelope *dekbox.Envelope `json:"envelope"`
	Bundle   *dekbox.Bundle   `json:"bundle"`
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req encryptRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Plaintext == "" {
		writeError(w, s.logger, badRequestf("plaintext is required"))
		return
	}
	if req.Cipher == "" {
		req.Cipher = dekbox.CipherAES256GCM
	}

	recipients := s.selectRecipients(req.RIDs)
	if len(recipients) == 0 {
		writeError(w, s.logger, badRequestf("no recipients: add at least one on the encrypt tab"))
		return
	}

	raw, err := dekbox.EncryptTextRaw(req.Plaintext, req.Cipher, req.AADText)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	entries := make([]dekbox.EnvelopeRecipient, 0, len(recipients))
	privByRID := make(map[string]string, len(recipients))
	pubByRID := make(map[string]string, len(recipients))
	for _, rec := range recipients {
		var wrapped string
		switch rec.Scheme {
		case dekbox.SchemeSecp256k1:
			wrapped, err = dekbox.WrapDEKSecp256k1(raw.Key, rec.Pub, rec.RID, req.AADText)
		case dekbox.SchemeMLKEM768:
			wrapped, err = dekbox.WrapDEKMLKEM768(raw.Key, rec.Pub, rec.RID, req.AADText)
		default:
			err = fmt.Errorf("%w: %q", dekbox.ErrUnknownScheme, rec.Scheme)
		}
		if err != nil {
			writeError(w, s.logger, err)
			return
		}

		entries = append(entries, dekbox.EnvelopeRecipient{
			RID: rec.RID, Scheme: rec.Scheme, Pub: rec.Pub, WrappedKey: wrapped,
		})
		if rec.Priv != "" {
			privByRID[rec.RID] = rec.Priv
		}
		pubByRID[rec.RID] = rec.Pub
	}

	env, err := dekbox.BuildEnvelope(raw, req.Cipher, entries)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	bundle := &dekbox.Bundle{
		AADText: req.AADText,
		Raw: dekbox.RawPayload{
			CiphertextB64url: raw.CiphertextB64url,
			NonceB64url:      raw.NonceB64url,
			CiphertextHash:   raw.CiphertextHash,
			AADHash:          raw.AADHash,
		},
		Envelope:              env,
		RecipientPrivHexByRID: privByRID,
		RecipientPubHexByRID:  pubByRID,
	}

	writeJSON(w, http.StatusOK, encryptResponse{Envelope: env, Bundle: bundle})
}

// selectRecipients returns the session recipients matching rids, or all of
// them when rids is empty.
func (s *Server) selectRecipients(rids []string) []Recipient {
	all := s.session.Recipients()
	if len(rids) == 0 {
		return all
	}

	want := make(map[string]bool, len(rids))
	for _, rid := range rids {
		want[rid] = true
	}

	var out []Recipient
	for _, rec := range all {
		if want[rec.RID] {
			out = append(out, rec)
		}
	}
	return out
}

// --- recipients ---

type addRecipientRequest struct {
	Scheme dekbox.Scheme `json:"scheme"`
	RID    string        `json:"rid"`
	Pub    string        `json:"pub"`
	Priv   string        `json:"priv"`
	Label  string        `json:"label"`
}

func (s *Server) handleListRecipients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Recipients())
}

func (s *Server) handleAddRecipient(w http.ResponseWriter, r *http.Request) {
	var req addRecipientRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Scheme == "" {
		req.Scheme = dekbox.SchemeSecp256k1
	}

	rec, err := s.session.AddRecipient(req.Scheme, req.RID, req.Pub, req.Priv, req.Label)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	rid := mux.Vars(r)["rid"]
	if !s.session.RemoveRecipient(rid) {
		writeError(w, s.logger, fmt.Errorf("%w: %q", dekbox.ErrRecipientNotFound, rid))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- decrypt tab ---

type decryptRequest struct {
	Bundle json.RawMessage `json:"bundle"`
	RID    string          `json:"rid"`
}

type decryptResponse struct {
	Plaintext string `json:"plaintext"`
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if len(req.Bundle) == 0 {
		writeError(w, s.logger, badRequestf("bundle is required"))
		return
	}

	b, err := dekbox.ParseBundle(req.Bundle)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	plaintext, err := b.Decrypt(req.RID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, decryptResponse{Plaintext: plaintext})
}

type decryptAutoResponse struct {
	Token uint64 `json:"token"`
}

// handleDecryptAuto schedules a debounced decrypt and returns immediately
// with the run token. The UI polls the result endpoint and compares tokens.
func (s *Server) handleDecryptAuto(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if len(req.Bundle) == 0 {
		writeError(w, s.logger, badRequestf("bundle is required"))
		return
	}

	token := s.session.ScheduleDecrypt(req.Bundle, req.RID)
	writeJSON(w, http.StatusOK, decryptAutoResponse{Token: token})
}

func (s *Server) handleDecryptResult(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.session.Result()
	if !ok {
		writeJSON(w, http.StatusOK, AutoResult{})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- unwrap/wrap tab ---

type wrapRequest struct {
	KeyB64url string        `json:"keyB64url"`
	Scheme    dekbox.Scheme `json:"scheme"`
	Pub       string        `json:"pub"`
	RID       string        `json:"rid"`
	AADText   string        `json:"aadText"`
}

type wrapResponse struct {
	WrappedKey string `json:"wrappedKey"`
}

func (s *Server) handleWrap(w http.ResponseWriter, r *http.Request) {
	var req wrapRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	key, err := dekbox.DecodeKeyB64url(req.KeyB64url)
	if err != nil {
		writeError(w, s.logger, badRequestf("invalid keyB64url: %v", err))
		return
	}

	var wrapped string
	switch req.Scheme {
	case dekbox.SchemeSecp256k1:
		wrapped, err = dekbox.WrapDEKSecp256k1(key, req.Pub, req.RID, req.AADText)
	case dekbox.SchemeMLKEM768:
		wrapped, err = dekbox.WrapDEKMLKEM768(key, req.Pub, req.RID, req.AADText)
	default:
		err = fmt.Errorf("%w: %q", dekbox.ErrUnknownScheme, req.Scheme)
	}
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, wrapResponse{WrappedKey: wrapped})
}

type unwrapRequest struct {
	WrappedKey string        `json:"wrappedKey"`
	Scheme     dekbox.Scheme `json:"scheme"`
	Priv       string        `json:"priv"`
	AADText    string        `json:"aadText"`
}

type unwrapResponse struct {
	KeyB64url string `json:"keyB64url"`
}

func (s *Server) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	var req unwrapRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var key []byte
	var err error
	switch req.Scheme {
	case dekbox.SchemeSecp256k1:
		key, err = dekbox.UnwrapDEKSecp256k1(req.WrappedKey, req.Priv, req.AADText)
	case dekbox.SchemeMLKEM768:
		key, err = dekbox.UnwrapDEKMLKEM768(req.WrappedKey, req.Priv, req.AADText)
	default:
		err = fmt.Errorf("%w: %q", dekbox.ErrUnknownScheme, req.Scheme)
	}
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, unwrapResponse{KeyB64url: dekbox.EncodeKeyB64url(key)})
}

// --- self-test tab ---

type selfTestRequest struct {
	Plaintext string `json:"plaintext"`
}

type selfTestResult struct {
	Cipher    dekbox.Cipher `json:"cipher"`
	Scheme    dekbox.Scheme `json:"scheme"`
	OK        bool          `json:"ok"`
	Plaintext string        `json:"plaintext,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// handleSelfTest runs a generate-wrap-unwrap-decrypt round trip per
// cipher/scheme combination and reports each outcome. A failing combination
// is a result row, not an HTTP failure.
func (s *Server) handleSelfTest(w http.ResponseWriter, r *http.Request) {
	var req selfTestRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if req.Plaintext == "" {
		req.Plaintext = "dekbox self test"
	}

	ciphers := []dekbox.Cipher{dekbox.CipherAES256GCM, dekbox.CipherChaCha20Poly1305}
	schemes := []dekbox.Scheme{dekbox.SchemeSecp256k1, dekbox.SchemeMLKEM768}

	results := make([]selfTestResult, 0, len(ciphers)*len(schemes))
	for _, cipher := range ciphers {
		for _, scheme := range schemes {
			res := selfTestResult{Cipher: cipher, Scheme: scheme}

			v, err := dekbox.GenerateVector(req.Plaintext, cipher, scheme, "")
			if err == nil {
				res.Plaintext, err = v.Verify()
			}
			if err != nil {
				res.Error = err.Error()
			} else {
				res.OK = res.Plaintext == req.Plaintext
			}

			results = append(results, res)
		}
	}

	writeJSON(w, http.StatusOK, results)
}

// handleSelfTestVector returns a downloadable legacy vector document.
func (s *Server) handleSelfTestVector(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cipher := dekbox.Cipher(q.Get("cipher"))
	if cipher == "" {
		cipher = dekbox.CipherAES256GCM
	}
	scheme := dekbox.Scheme(q.Get("scheme"))
	if scheme == "" {
		scheme = dekbox.SchemeSecp256k1
	}
	plaintext := q.Get("plaintext")
	if plaintext == "" {
		plaintext = "dekbox self test"
	}

	v, err := dekbox.GenerateVector(plaintext, cipher, scheme, q.Get("aadText"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="dekbox-vector.json"`)
	writeJSON(w, http.StatusOK, v)
}
