// Package services contains the business logic layer for the link shortener.
package services

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	customerrors "github.com/theomrc/linklocal/internal/errors"
	"github.com/theomrc/linklocal/internal/models"
)

// charset defines the character set used for generating short codes.
// Uses alphanumeric characters (both cases) for a total of 62 possible characters.
// This gives us 62^7 = ~3.5 trillion possible combinations for 7-character codes.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// CodeLength is the length of generated short codes.
	CodeLength = 7

	// MaxGenerationAttempts bounds the collision-retry loop for generated codes.
	MaxGenerationAttempts = 100

	// DefaultValidity is applied when the requested validity is missing or
	// not a positive number of minutes.
	DefaultValidity = 30 * time.Minute
)

// aliasPattern is the format rule shared by aliases and generated codes:
// 3 to 30 characters, alphanumeric plus underscore and dash.
var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// CreateInput carries the user's request for a new shortened link.
type CreateInput struct {
	OriginalURL     string
	Alias           string // optional custom code; generated when blank
	ValidityMinutes int    // <= 0 means "use the default"
}

// ResolveOutcome is the result of a successful visit: the destination to
// navigate to and the updated collection carrying the recorded click. The
// caller must persist Links before navigating, so the click is not lost if
// navigation is interrupted.
type ResolveOutcome struct {
	RedirectURL string
	Links       []models.Link
}

// LinkService provides the link lifecycle logic: creation (validation, code
// assignment, expiry stamping) and resolution (lookup, expiry check, click
// recording). It is pure with respect to storage; callers own load and save.
type LinkService struct {
	rand RandomSource
	now  func() time.Time
}

// NewLinkService creates and returns a new instance of LinkService.
// A nil source selects the default crypto/rand-backed one.
func NewLinkService(src RandomSource) *LinkService {
	if src == nil {
		src = NewCryptoSource()
	}
	return &LinkService{
		rand: src,
		now:  time.Now,
	}
}

// GenerateShortCode draws a random code of the given length from the
// 62-character alphanumeric charset.
func (s *LinkService) GenerateShortCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = charset[s.rand.Index(len(charset))]
	}
	return string(code)
}

// CreateLink validates the input and builds a new Link against the existing
// collection. Nothing is persisted here: on success the caller prepends the
// link to the collection and saves it; on error the collection is untouched.
func (s *LinkService) CreateLink(input CreateInput, existing []models.Link) (*models.Link, error) {
	originalURL := strings.TrimSpace(input.OriginalURL)
	if originalURL == "" {
		return nil, customerrors.ErrEmptyURL
	}

	parsed, err := url.Parse(originalURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, customerrors.ErrInvalidURL
	}

	var code string
	alias := strings.TrimSpace(input.Alias)
	if alias != "" {
		if !aliasPattern.MatchString(alias) {
			return nil, customerrors.ErrInvalidAlias
		}
		// Expired links keep their code reserved until housekeeping prunes
		// them, so the taken-check runs over everything currently stored.
		if codeTaken(existing, alias) {
			return nil, customerrors.ErrAliasTaken
		}
		code = alias
	} else {
		code, err = s.generateUniqueCode(existing)
		if err != nil {
			return nil, err
		}
	}

	validity := time.Duration(input.ValidityMinutes) * time.Minute
	if validity <= 0 {
		validity = DefaultValidity
	}

	createdAt := s.now().UnixMilli()
	link := &models.Link{
		ID:          models.NewLinkID(createdAt, code),
		OriginalURL: originalURL,
		Code:        code,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt + validity.Milliseconds(),
		Clicks:      []models.Click{},
	}
	return link, nil
}

// generateUniqueCode retries random generation until the code is free of
// collisions, up to MaxGenerationAttempts. Exhaustion is recoverable: the
// caller may simply retry the whole operation.
func (s *LinkService) generateUniqueCode(existing []models.Link) (string, error) {
	for i := 0; i < MaxGenerationAttempts; i++ {
		code := s.GenerateShortCode(CodeLength)
		if !codeTaken(existing, code) {
			return code, nil
		}
	}
	return "", customerrors.ErrShortCodeGenerationFailed
}

// ResolveLink performs the redirect decision for one visit of rawCode.
//
// The code is URL-decoded and matched exactly (case-sensitive). A missing code
// yields ErrShortCodeNotFound; a link strictly past its expiry instant yields
// ErrLinkExpired with no click recorded. Otherwise a click is appended
// copy-on-write: links other than the matched one are returned unchanged by
// value, and the matched one is replaced with the appended click.
func (s *LinkService) ResolveLink(rawCode, referrer string, links []models.Link) (*ResolveOutcome, error) {
	code, err := url.PathUnescape(rawCode)
	if err != nil {
		// Malformed escapes are looked up verbatim rather than rejected.
		code = rawCode
	}

	idx := -1
	for i := range links {
		if links[i].Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, customerrors.ErrShortCodeNotFound
	}

	nowMillis := s.now().UnixMilli()
	if links[idx].IsExpired(nowMillis) {
		return nil, customerrors.ErrLinkExpired
	}

	if referrer == "" {
		referrer = models.DirectReferrer
	}

	updated := make([]models.Link, len(links))
	copy(updated, links)

	visited := updated[idx]
	clicks := make([]models.Click, len(visited.Clicks), len(visited.Clicks)+1)
	copy(clicks, visited.Clicks)
	visited.Clicks = append(clicks, models.Click{
		Timestamp: nowMillis,
		Referrer:  referrer,
	})
	updated[idx] = visited

	return &ResolveOutcome{
		RedirectURL: visited.OriginalURL,
		Links:       updated,
	}, nil
}

// GetLinkStats returns the link for a short code together with its click count.
func (s *LinkService) GetLinkStats(code string, links []models.Link) (*models.Link, int, error) {
	for i := range links {
		if links[i].Code == code {
			return &links[i], len(links[i].Clicks), nil
		}
	}
	return nil, 0, customerrors.ErrShortCodeNotFound
}

// codeTaken reports whether any stored link already uses the exact code.
func codeTaken(links []models.Link, code string) bool {
	for i := range links {
		if links[i].Code == code {
			return true
		}
	}
	return false
}
