package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	customerrors "github.com/theomrc/linklocal/internal/errors"
	"github.com/theomrc/linklocal/internal/models"
)

// scriptedSource replays a fixed sequence of indices, cycling when exhausted.
// charset[0] is 'a', charset[1] is 'b', so a script of seven zeros yields the
// code "aaaaaaa".
type scriptedSource struct {
	indices []int
	pos     int
}

func (s *scriptedSource) Index(max int) int {
	idx := s.indices[s.pos%len(s.indices)]
	s.pos++
	return idx % max
}

func newTestService(src RandomSource, nowMillis int64) *LinkService {
	svc := NewLinkService(src)
	svc.now = func() time.Time { return time.UnixMilli(nowMillis) }
	return svc
}

func activeLink(code string, nowMillis int64) models.Link {
	return models.Link{
		ID:          models.NewLinkID(nowMillis, code),
		OriginalURL: "https://example.com/" + code,
		Code:        code,
		CreatedAt:   nowMillis,
		ExpiresAt:   nowMillis + 60_000,
		Clicks:      []models.Click{},
	}
}

func TestCreateLink_GeneratedCode(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	link, err := svc.CreateLink(CreateInput{
		OriginalURL:     "https://example.com",
		ValidityMinutes: 1,
	}, nil)
	if err != nil {
		t.Fatalf("CreateLink() unexpected error: %v", err)
	}

	if len(link.Code) != CodeLength {
		t.Errorf("code length = %d, want %d", len(link.Code), CodeLength)
	}
	for i, c := range link.Code {
		if !strings.ContainsRune(charset, c) {
			t.Errorf("code contains invalid character %q at position %d", c, i)
		}
	}
	if link.CreatedAt != now {
		t.Errorf("CreatedAt = %d, want %d", link.CreatedAt, now)
	}
	if got, want := link.ExpiresAt, now+60_000; got != want {
		t.Errorf("ExpiresAt = %d, want %d", got, want)
	}
	if link.ID != models.NewLinkID(now, link.Code) {
		t.Errorf("ID = %q, want derived from creation time and code", link.ID)
	}
	if len(link.Clicks) != 0 {
		t.Errorf("new link has %d clicks, want 0", len(link.Clicks))
	}
}

func TestCreateLink_DefaultValidity(t *testing.T) {
	const now = int64(1_700_000_000_000)

	for _, validity := range []int{0, -5} {
		svc := newTestService(nil, now)
		link, err := svc.CreateLink(CreateInput{
			OriginalURL:     "https://example.com",
			ValidityMinutes: validity,
		}, nil)
		if err != nil {
			t.Fatalf("CreateLink(validity=%d) unexpected error: %v", validity, err)
		}
		if got, want := link.ExpiresAt-link.CreatedAt, DefaultValidity.Milliseconds(); got != want {
			t.Errorf("CreateLink(validity=%d): expiry window = %dms, want %dms", validity, got, want)
		}
	}
}

func TestCreateLink_Alias(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	link, err := svc.CreateLink(CreateInput{
		OriginalURL: "https://example.com",
		Alias:       "  promo  ",
	}, nil)
	if err != nil {
		t.Fatalf("CreateLink() unexpected error: %v", err)
	}
	if link.Code != "promo" {
		t.Errorf("Code = %q, want trimmed alias %q", link.Code, "promo")
	}
}

func TestCreateLink_Validation(t *testing.T) {
	const now = int64(1_700_000_000_000)

	tests := []struct {
		name    string
		input   CreateInput
		wantErr error
	}{
		{
			name:    "empty url",
			input:   CreateInput{OriginalURL: ""},
			wantErr: customerrors.ErrEmptyURL,
		},
		{
			name:    "whitespace url",
			input:   CreateInput{OriginalURL: "   "},
			wantErr: customerrors.ErrEmptyURL,
		},
		{
			name:    "not a url",
			input:   CreateInput{OriginalURL: "not a url"},
			wantErr: customerrors.ErrInvalidURL,
		},
		{
			name:    "unsupported scheme",
			input:   CreateInput{OriginalURL: "ftp://example.com/file"},
			wantErr: customerrors.ErrInvalidURL,
		},
		{
			name:    "missing host",
			input:   CreateInput{OriginalURL: "https://"},
			wantErr: customerrors.ErrInvalidURL,
		},
		{
			name:    "alias too short",
			input:   CreateInput{OriginalURL: "https://example.com", Alias: "ab"},
			wantErr: customerrors.ErrInvalidAlias,
		},
		{
			name:    "alias too long",
			input:   CreateInput{OriginalURL: "https://example.com", Alias: strings.Repeat("x", 31)},
			wantErr: customerrors.ErrInvalidAlias,
		},
		{
			name:    "alias with invalid characters",
			input:   CreateInput{OriginalURL: "https://example.com", Alias: "pro mo!"},
			wantErr: customerrors.ErrInvalidAlias,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(nil, now)
			_, err := svc.CreateLink(tt.input, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateLink() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateLink_AliasTaken(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	first, err := svc.CreateLink(CreateInput{
		OriginalURL: "https://example.com/one",
		Alias:       "promo",
	}, nil)
	if err != nil {
		t.Fatalf("first CreateLink() unexpected error: %v", err)
	}

	_, err = svc.CreateLink(CreateInput{
		OriginalURL: "https://example.com/two",
		Alias:       "promo",
	}, []models.Link{*first})
	if !errors.Is(err, customerrors.ErrAliasTaken) {
		t.Errorf("second CreateLink() error = %v, want %v", err, customerrors.ErrAliasTaken)
	}
}

func TestCreateLink_AliasTakenByExpiredLink(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	expired := activeLink("promo", now-120_000) // expired a minute ago

	_, err := svc.CreateLink(CreateInput{
		OriginalURL: "https://example.com",
		Alias:       "promo",
	}, []models.Link{expired})
	if !errors.Is(err, customerrors.ErrAliasTaken) {
		t.Errorf("CreateLink() error = %v, want %v (expired codes stay taken until pruned)", err, customerrors.ErrAliasTaken)
	}
}

func TestCreateLink_CollisionRetry(t *testing.T) {
	const now = int64(1_700_000_000_000)

	// First seven draws yield "aaaaaaa" (taken), the next seven "bbbbbbb".
	src := &scriptedSource{indices: []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1}}
	svc := newTestService(src, now)

	existing := []models.Link{activeLink("aaaaaaa", now)}
	link, err := svc.CreateLink(CreateInput{OriginalURL: "https://example.com"}, existing)
	if err != nil {
		t.Fatalf("CreateLink() unexpected error: %v", err)
	}
	if link.Code != "bbbbbbb" {
		t.Errorf("Code = %q, want %q after one collision retry", link.Code, "bbbbbbb")
	}
}

func TestCreateLink_GenerationExhausted(t *testing.T) {
	const now = int64(1_700_000_000_000)

	// Every draw collides with the stored code.
	src := &scriptedSource{indices: []int{0}}
	svc := newTestService(src, now)

	existing := []models.Link{activeLink("aaaaaaa", now)}
	_, err := svc.CreateLink(CreateInput{OriginalURL: "https://example.com"}, existing)
	if !errors.Is(err, customerrors.ErrShortCodeGenerationFailed) {
		t.Errorf("CreateLink() error = %v, want %v", err, customerrors.ErrShortCodeGenerationFailed)
	}
}

func TestCreateLink_CodeUniquenessAfterSequence(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	var links []models.Link
	for i := 0; i < 50; i++ {
		link, err := svc.CreateLink(CreateInput{OriginalURL: "https://example.com"}, links)
		if err != nil {
			t.Fatalf("CreateLink() #%d unexpected error: %v", i, err)
		}
		links = append([]models.Link{*link}, links...)
	}

	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if seen[link.Code] {
			t.Errorf("duplicate code %q after a sequence of creates", link.Code)
		}
		seen[link.Code] = true
	}
}

func TestResolveLink_NotFound(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	links := []models.Link{activeLink("known", now)}
	_, err := svc.ResolveLink("missing", "", links)
	if !errors.Is(err, customerrors.ErrShortCodeNotFound) {
		t.Errorf("ResolveLink() error = %v, want %v", err, customerrors.ErrShortCodeNotFound)
	}
}

func TestResolveLink_Expired(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	link := activeLink("gone", now-120_000) // expiresAt one minute in the past
	links := []models.Link{link}

	_, err := svc.ResolveLink("gone", "", links)
	if !errors.Is(err, customerrors.ErrLinkExpired) {
		t.Fatalf("ResolveLink() error = %v, want %v", err, customerrors.ErrLinkExpired)
	}
	if len(links[0].Clicks) != 0 {
		t.Errorf("expired resolve recorded a click: %d clicks", len(links[0].Clicks))
	}
}

func TestResolveLink_ExpiryBoundary(t *testing.T) {
	link := activeLink("edge", 1_700_000_000_000)

	t.Run("at the expiry instant the link is still valid", func(t *testing.T) {
		svc := newTestService(nil, link.ExpiresAt)
		outcome, err := svc.ResolveLink("edge", "", []models.Link{link})
		if err != nil {
			t.Fatalf("ResolveLink() at now == expiresAt failed: %v", err)
		}
		if outcome.RedirectURL != link.OriginalURL {
			t.Errorf("RedirectURL = %q, want %q", outcome.RedirectURL, link.OriginalURL)
		}
	})

	t.Run("one millisecond past expiry the link is expired", func(t *testing.T) {
		svc := newTestService(nil, link.ExpiresAt+1)
		_, err := svc.ResolveLink("edge", "", []models.Link{link})
		if !errors.Is(err, customerrors.ErrLinkExpired) {
			t.Errorf("ResolveLink() error = %v, want %v", err, customerrors.ErrLinkExpired)
		}
	})
}

func TestResolveLink_RecordsClicks(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	links := []models.Link{activeLink("hit", now)}

	first, err := svc.ResolveLink("hit", "", links)
	if err != nil {
		t.Fatalf("first ResolveLink() failed: %v", err)
	}
	second, err := svc.ResolveLink("hit", "https://news.example.org", first.Links)
	if err != nil {
		t.Fatalf("second ResolveLink() failed: %v", err)
	}

	clicks := second.Links[0].Clicks
	if len(clicks) != 2 {
		t.Fatalf("clicks length = %d, want 2", len(clicks))
	}
	if clicks[0].Referrer != models.DirectReferrer {
		t.Errorf("first click referrer = %q, want %q", clicks[0].Referrer, models.DirectReferrer)
	}
	if clicks[1].Referrer != "https://news.example.org" {
		t.Errorf("second click referrer = %q, want the supplied referrer", clicks[1].Referrer)
	}
	if clicks[0].Timestamp > clicks[1].Timestamp {
		t.Errorf("clicks out of chronological order: %d then %d", clicks[0].Timestamp, clicks[1].Timestamp)
	}

	// The input collection is never mutated in place.
	if len(links[0].Clicks) != 0 {
		t.Errorf("input collection was mutated: %d clicks", len(links[0].Clicks))
	}
}

func TestResolveLink_LeavesOtherLinksUntouched(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	other := activeLink("other", now)
	target := activeLink("target", now)
	links := []models.Link{other, target}

	outcome, err := svc.ResolveLink("target", "", links)
	if err != nil {
		t.Fatalf("ResolveLink() failed: %v", err)
	}

	if outcome.Links[0].ID != other.ID || len(outcome.Links[0].Clicks) != 0 {
		t.Errorf("non-matched link changed: %+v", outcome.Links[0])
	}
	if len(outcome.Links[1].Clicks) != 1 {
		t.Errorf("matched link clicks = %d, want 1", len(outcome.Links[1].Clicks))
	}
}

func TestResolveLink_CaseSensitiveMatch(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	links := []models.Link{activeLink("Promo", now)}
	_, err := svc.ResolveLink("promo", "", links)
	if !errors.Is(err, customerrors.ErrShortCodeNotFound) {
		t.Errorf("ResolveLink() error = %v, want %v for a case mismatch", err, customerrors.ErrShortCodeNotFound)
	}
}

func TestResolveLink_URLDecodesCode(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	links := []models.Link{activeLink("promo-1", now)}
	outcome, err := svc.ResolveLink("promo%2D1", "", links)
	if err != nil {
		t.Fatalf("ResolveLink() failed for an escaped code: %v", err)
	}
	if outcome.RedirectURL != links[0].OriginalURL {
		t.Errorf("RedirectURL = %q, want %q", outcome.RedirectURL, links[0].OriginalURL)
	}
}

func TestGetLinkStats(t *testing.T) {
	const now = int64(1_700_000_000_000)
	svc := newTestService(nil, now)

	link := activeLink("stats", now)
	link.Clicks = []models.Click{
		{Timestamp: now, Referrer: models.DirectReferrer},
		{Timestamp: now + 1, Referrer: "https://example.org"},
	}

	got, total, err := svc.GetLinkStats("stats", []models.Link{link})
	if err != nil {
		t.Fatalf("GetLinkStats() failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total clicks = %d, want 2", total)
	}
	if got.OriginalURL != link.OriginalURL {
		t.Errorf("OriginalURL = %q, want %q", got.OriginalURL, link.OriginalURL)
	}

	if _, _, err := svc.GetLinkStats("missing", []models.Link{link}); !errors.Is(err, customerrors.ErrShortCodeNotFound) {
		t.Errorf("GetLinkStats() error = %v, want %v", err, customerrors.ErrShortCodeNotFound)
	}
}

func TestGenerateShortCode_Charset(t *testing.T) {
	svc := NewLinkService(nil)

	for i := 0; i < 100; i++ {
		code := svc.GenerateShortCode(CodeLength)
		if len(code) != CodeLength {
			t.Fatalf("code length = %d, want %d", len(code), CodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(charset, c) {
				t.Fatalf("code %q contains character outside the 62-char alphabet", code)
			}
		}
	}
}
