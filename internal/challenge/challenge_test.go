package challenge

import (
	"context"
	"testing"

	"github.com/scootgate/scootgate/internal/cipher"
	"github.com/scootgate/scootgate/internal/logging"
	"github.com/scootgate/scootgate/internal/record"
)

func newSequencer(t *testing.T) (*Sequencer, record.Store) {
	t.Helper()
	gen, err := cipher.NewGenerator(3)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	store := record.NewMemoryStore()
	return NewSequencer(store, gen, logging.Discard()), store
}

func seedRecord(t *testing.T, store record.Store, validated, cipherValidated bool) record.UserAuthRecord {
	t.Helper()
	rec := record.UserAuthRecord{
		UserID:           "a@x.com",
		Name:             "Alice",
		Role:             record.RoleCustomer,
		SecurityQuestion: "pet name",
		HashedAnswer:     HashAnswer("Rex"),
		Validated:        validated,
		CipherValidated:  cipherValidated,
	}
	if err := store.Put(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func TestStateDerivation(t *testing.T) {
	cases := []struct {
		validated, cipherValidated bool
		want                       State
	}{
		{false, false, SecurityQuestionPending},
		{false, true, SecurityQuestionPending}, // question always precedes cipher
		{true, false, CipherPending},
		{true, true, FullyValidated},
	}
	for _, c := range cases {
		rec := record.UserAuthRecord{Validated: c.validated, CipherValidated: c.cipherValidated}
		if got := StateOf(rec); got != c.want {
			t.Fatalf("flags (%v,%v): expected %v, got %v", c.validated, c.cipherValidated, c.want, got)
		}
	}
}

func TestDecideNext(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()

	// No record configured: fall through to tokens.
	dec, err := seq.DecideNext(ctx, "stranger@x.com")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dec != DecisionIssueTokens {
		t.Fatalf("expected ISSUE_TOKENS for unknown user, got %v", dec)
	}

	seedRecord(t, store, false, false)
	dec, err = seq.DecideNext(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dec != DecisionPresentChallenge {
		t.Fatalf("expected PRESENT_CUSTOM_CHALLENGE, got %v", dec)
	}

	seedRecord(t, store, true, true)
	dec, err = seq.DecideNext(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if dec != DecisionIssueTokens {
		t.Fatalf("expected ISSUE_TOKENS for validated user, got %v", dec)
	}
}

func TestIssueSecurityQuestionFirst(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()
	seedRecord(t, store, false, false)

	params, err := seq.Issue(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if params.Name != NameSecurityQuestion {
		t.Fatalf("expected security question, got %s", params.Name)
	}
	if params.Public[ParamQuestion] != "pet name" {
		t.Fatalf("expected stored question, got %q", params.Public[ParamQuestion])
	}
	if params.Private[ParamExpectedAnswer] != HashAnswer("Rex") {
		t.Fatal("private params should carry the stored digest")
	}
	if _, ok := params.Public[ParamCipherText]; ok {
		t.Fatal("security question round must not expose cipher text")
	}
}

func TestIssueCipherPersistsFreshPuzzle(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()
	seedRecord(t, store, true, false)

	first, err := seq.Issue(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first.Name != NameCipher {
		t.Fatalf("expected cipher round, got %s", first.Name)
	}

	rec, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.CipherPlain != first.Private[ParamExpectedAnswer] {
		t.Fatal("persisted plaintext must match issued private params")
	}
	if cipher.Decrypt(first.Public[ParamCipherText], rec.CipherShift) != rec.CipherPlain {
		t.Fatal("ciphertext must decrypt to the persisted plaintext")
	}

	// Re-issuing replaces the outstanding puzzle: the latest persisted
	// plaintext is authoritative.
	second, err := seq.Issue(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("issue again: %v", err)
	}
	rec, _ = store.Get(ctx, "a@x.com")
	if rec.CipherPlain != second.Private[ParamExpectedAnswer] {
		t.Fatal("re-issue must overwrite the persisted puzzle")
	}
}

func TestIssueFullyValidated(t *testing.T) {
	seq, store := newSequencer(t)
	seedRecord(t, store, true, true)
	if _, err := seq.Issue(context.Background(), "a@x.com"); err != ErrNoChallengePending {
		t.Fatalf("expected ErrNoChallengePending, got %v", err)
	}
}

func TestVerifySecurityAnswerCaseSensitive(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()
	seedRecord(t, store, false, false)

	ok, err := seq.Verify(ctx, "a@x.com", "rex")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("lowercased answer must fail the digest comparison")
	}
	rec, _ := store.Get(ctx, "a@x.com")
	if rec.Validated {
		t.Fatal("failed verification must not mutate state")
	}

	// Repeated wrong answers stay side-effect free.
	for i := 0; i < 3; i++ {
		if ok, _ := seq.Verify(ctx, "a@x.com", "wrong"); ok {
			t.Fatal("wrong answer accepted")
		}
	}
	rec, _ = store.Get(ctx, "a@x.com")
	if rec.Validated || rec.CipherValidated {
		t.Fatal("repeated failures must not mutate state")
	}

	ok, err = seq.Verify(ctx, "a@x.com", "Rex")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("exact-case answer must pass")
	}
	rec, _ = store.Get(ctx, "a@x.com")
	if !rec.Validated {
		t.Fatal("success must flip validated")
	}
	if rec.CipherValidated {
		t.Fatal("question success must not touch cipherValidated")
	}
}

func TestVerifyCipherCaseInsensitive(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()
	seedRecord(t, store, true, false)

	params, err := seq.Issue(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	plain := params.Private[ParamExpectedAnswer]

	ok, err := seq.Verify(ctx, "a@x.com", "nonsense")
	if err != nil || ok {
		t.Fatalf("expected clean failure, got ok=%v err=%v", ok, err)
	}

	upper := make([]byte, len(plain))
	for i := range plain {
		upper[i] = plain[i] - 'a' + 'A'
	}
	ok, err = seq.Verify(ctx, "a@x.com", string(upper))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("uppercased cipher answer must pass the case-insensitive comparison")
	}
	rec, _ := store.Get(ctx, "a@x.com")
	if !rec.CipherValidated {
		t.Fatal("success must flip cipherValidated")
	}
}

func TestVerifyStaleCipherAnswerFails(t *testing.T) {
	seq, store := newSequencer(t)
	ctx := context.Background()
	seedRecord(t, store, true, false)

	first, _ := seq.Issue(ctx, "a@x.com")
	stale := first.Private[ParamExpectedAnswer]

	// A second issuance wins; the earlier plaintext is dead unless it
	// happens to collide with the fresh one.
	second, _ := seq.Issue(ctx, "a@x.com")
	if stale == second.Private[ParamExpectedAnswer] {
		t.Skip("random puzzles collided")
	}

	if ok, _ := seq.Verify(ctx, "a@x.com", stale); ok {
		t.Fatal("stale plaintext must fail after re-issue")
	}
	if ok, _ := seq.Verify(ctx, "a@x.com", second.Private[ParamExpectedAnswer]); !ok {
		t.Fatal("current plaintext must pass")
	}
}

func TestVerifyFullyValidatedIsNoOpFailure(t *testing.T) {
	seq, store := newSequencer(t)
	seedRecord(t, store, true, true)
	ok, err := seq.Verify(context.Background(), "a@x.com", "anything")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("verification after full validation is a protocol misuse and must fail")
	}
}
