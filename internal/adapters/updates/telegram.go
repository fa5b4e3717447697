package updates

import (
	"bedrockbot/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	// requestMargin is added on top of the long-poll timeout for the HTTP request deadline.
	requestMargin = 10 * time.Second
)

var ErrNotOK = errors.New("telegram getUpdates: ok=false")

// Telegram fetches updates from the Bot API with long polling.
type Telegram struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewTelegram(baseURL, token string) *Telegram {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Telegram{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{},
	}
}

type getUpdatesResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      []models.Update `json:"result"`
}

func (t *Telegram) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]domain.Update, error) {
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}

	query := url.Values{}
	query.Set("timeout", strconv.Itoa(secs))
	if offset > 0 {
		query.Set("offset", strconv.FormatInt(offset, 10))
	}

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?%s", t.baseURL, t.token, query.Encode())

	reqCtx, cancel := context.WithTimeout(ctx, timeout+requestMargin)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating getUpdates request: %w", err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing getUpdates request: %w", redactToken(err, t.token))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading getUpdates response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("telegram http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var result getUpdatesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling getUpdates response: %w", err)
	}

	if !result.OK {
		return nil, fmt.Errorf("%w: %s", ErrNotOK, result.Description)
	}

	log.Trace().Int("updates", len(result.Result)).Int64("offset", offset).Msg("fetched updates")

	return toDomain(result.Result), nil
}

func toDomain(updates []models.Update) []domain.Update {
	out := make([]domain.Update, len(updates))

	for i, u := range updates {
		out[i] = domain.Update{ID: u.ID}
		if u.Message == nil {
			continue
		}

		out[i].Message = &domain.Message{
			ID:       u.Message.ID,
			ChatID:   u.Message.Chat.ID,
			Username: getUserNameOrFirstName(u.Message.From),
			Text:     u.Message.Text,
		}
	}

	return out
}

func getUserNameOrFirstName(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}

// redactToken removes the bot token from transport errors, which embed the request URL.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
