package openfinance

import "encoding/json"

// Connector identifies the institution behind an item.
type Connector struct {
	Name string `json:"name"`
}

// Item is an aggregator connection between one end user and one institution.
// Only items in status UPDATED have fresh data worth syncing.
type Item struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Connector Connector `json:"connector"`
}

// StatusUpdated is the only item status the sync pass acts on.
const StatusUpdated = "UPDATED"

// Account is a bank account as reported by the aggregator.
type Account struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currencyCode"`
}

// Transaction is a single ledger entry as reported by the aggregator.
// Amount sign carries the direction: positive is money in, negative out.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// resultsEnvelope is the aggregator's standard list wrapper. A missing or
// null results field decodes to an empty slice rather than an error.
type resultsEnvelope[T any] struct {
	Results []T `json:"results"`
}

// authResponse tolerates the three field names the auth endpoint has been
// seen to use for the same value. First non-empty wins, in this order.
type authResponse struct {
	APIKey       string `json:"apiKey"`
	AccessToken  string `json:"accessToken"`
	AccessToken2 string `json:"access_token"`
}

func (r authResponse) token() string {
	for _, t := range []string{r.APIKey, r.AccessToken, r.AccessToken2} {
		if t != "" {
			return t
		}
	}
	return ""
}

// connectTokenResponse tolerates the four field names seen for the widget
// connect token. First non-empty wins, in this order.
type connectTokenResponse struct {
	ConnectToken  string `json:"connectToken"`
	AccessToken   string `json:"accessToken"`
	ConnectToken2 string `json:"connect_token"`
	Token         string `json:"token"`
}

func (r connectTokenResponse) token() string {
	for _, t := range []string{r.ConnectToken, r.AccessToken, r.ConnectToken2, r.Token} {
		if t != "" {
			return t
		}
	}
	return ""
}

// connectTokenOptions mirrors the widget options the aggregator expects.
// The webhook URL rides inside options, not at the payload top level.
type connectTokenOptions struct {
	Language   string   `json:"language"`
	Products   []string `json:"products"`
	WebhookURL string   `json:"webhookUrl,omitempty"`
}

type connectTokenRequest struct {
	ItemID       string              `json:"itemId,omitempty"`
	ClientUserID string              `json:"clientUserId"`
	Options      connectTokenOptions `json:"options"`
}

func decodeResults[T any](body []byte) ([]T, error) {
	var env resultsEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return []T{}, nil
	}
	return env.Results, nil
}
