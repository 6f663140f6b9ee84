// internal/clients/royalty.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// RoyaltyClient talks to the remote royalty/ticketing platform. Every
// method returns either a parsed, validated response or an error from
// the domain taxonomy; no undefined-shaped data crosses this boundary.
type RoyaltyClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewRoyaltyClient(cfg config.RoyaltyConfig) *RoyaltyClient {
	return &RoyaltyClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

type PartyInput struct {
	PartyName     string  `json:"partyName"`
	Percentage    float64 `json:"percentage"`
	WalletAddress string  `json:"walletAddress"`
}

type CreateEventRequest struct {
	EventID               string       `json:"eventId"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	Venue                 string       `json:"venue"`
	EventDate             time.Time    `json:"eventDate"`
	TotalTickets          int          `json:"totalTickets"`
	TicketPrice           float64      `json:"ticketPrice"`
	RoyaltyDistribution   []PartyInput `json:"royaltyDistribution"`
	DistributionThreshold int          `json:"distributionThreshold"`
}

type PartyRecord struct {
	PartyName     string  `json:"partyName"`
	Percentage    float64 `json:"percentage"`
	WalletAddress string  `json:"walletAddress"`
	Approved      bool    `json:"approved"`
}

type EventRecord struct {
	ID                    string        `json:"id"`
	EventID               string        `json:"eventId"`
	Name                  string        `json:"name"`
	Description           string        `json:"description"`
	Venue                 string        `json:"venue"`
	EventDate             time.Time     `json:"eventDate"`
	TotalTickets          int           `json:"totalTickets"`
	TicketPrice           float64       `json:"ticketPrice,string"`
	TicketsSold           int           `json:"ticketsSold"`
	BlockchainEnabled     bool          `json:"blockchainEnabled"`
	BlockchainPDA         string        `json:"blockchainPDA"`
	RoyaltyDistribution   []PartyRecord `json:"royaltyDistribution"`
	DistributionThreshold int           `json:"distributionThreshold"`
}

type ApprovalStatus struct {
	EventID       string        `json:"eventId"`
	Parties       []PartyRecord `json:"parties"`
	ApprovedCount int           `json:"approvedCount"`
	Threshold     int           `json:"threshold"`
	TotalParties  int           `json:"totalParties"`
	EscrowBalance float64       `json:"escrowBalance"`
	Distributed   bool          `json:"distributed"`
}

type PayoutRecord struct {
	PartyName     string  `json:"partyName"`
	WalletAddress string  `json:"walletAddress"`
	Amount        float64 `json:"amount"`
}

type DistributionResult struct {
	EventID string         `json:"eventId"`
	Payouts []PayoutRecord `json:"payouts"`
}

// EscrowBalance is reported in USDC micro-units.
type EscrowBalance struct {
	USDCAmount int64 `json:"usdcAmount"`
}

func (b EscrowBalance) Decimal() float64 {
	return float64(b.USDCAmount) / 1_000_000
}

type PurchaseRequest struct {
	TicketID      string  `json:"ticketId"`
	BuyerWallet   string  `json:"buyerWallet"`
	SellerWallet  string  `json:"sellerWallet"`
	NewPrice      float64 `json:"newPrice"`
	OriginalPrice float64 `json:"originalPrice"`
	BuyerID       string  `json:"buyerId"`
	SellerID      string  `json:"sellerId"`
}

func (c *RoyaltyClient) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventRecord, error) {
	var record EventRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/events", req, &record); err != nil {
		if remoteMessageContains(err, "already exists") {
			return nil, fmt.Errorf("create event %s: %w", req.EventID, models.ErrAlreadyExists)
		}
		return nil, err
	}
	return &record, nil
}

func (c *RoyaltyClient) GetEvent(ctx context.Context, eventID string) (*EventRecord, error) {
	var record EventRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID, nil, &record); err != nil {
		if remoteStatus(err) == http.StatusNotFound {
			return nil, fmt.Errorf("get event %s: %w", eventID, models.ErrEventNotFound)
		}
		return nil, err
	}
	return &record, nil
}

func (c *RoyaltyClient) UpdateDistribution(ctx context.Context, eventID string, parties []PartyInput) error {
	body := map[string]interface{}{"royaltyDistribution": parties}
	return c.do(ctx, http.MethodPatch, "/api/v1/events/"+eventID, body, nil)
}

func (c *RoyaltyClient) InitializeBlockchain(ctx context.Context, eventID string) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/initialize-blockchain", struct{}{}, nil)
	if err != nil && remoteMessageContains(err, "already") {
		return fmt.Errorf("initialize blockchain for %s: %w", eventID, models.ErrAlreadyInitialized)
	}
	return err
}

func (c *RoyaltyClient) EnablePartnerAccounts(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/enable-partner-usdc", struct{}{}, nil)
}

func (c *RoyaltyClient) ApproveDistribution(ctx context.Context, eventID, credential string) (*ApprovalStatus, error) {
	body := map[string]string{"signerPrivateKey": credential}
	var status ApprovalStatus
	if err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/approve-distribution", body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *RoyaltyClient) Distribute(ctx context.Context, eventID string) (*DistributionResult, error) {
	var result DistributionResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/distribute", struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RoyaltyClient) ApprovalStatus(ctx context.Context, eventID string) (*ApprovalStatus, error) {
	var status ApprovalStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID+"/approval-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *RoyaltyClient) Escrow(ctx context.Context, eventID string) (*EscrowBalance, error) {
	var balance EscrowBalance
	if err := c.do(ctx, http.MethodGet, "/api/v1/events/"+eventID+"/escrow", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *RoyaltyClient) PurchaseTicket(ctx context.Context, eventID string, req PurchaseRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/tickets", req, nil)
}

func (c *RoyaltyClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return &models.RemoteError{Service: "royalty", Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &models.RemoteError{Service: "royalty", StatusCode: res.StatusCode, Err: err}
	}

	if res.StatusCode >= 400 {
		return &models.RemoteError{
			Service:    "royalty",
			StatusCode: res.StatusCode,
			Message:    errorMessage(data, res.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &models.RemoteError{Service: "royalty", StatusCode: res.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
		}
	}

	return nil
}

func errorMessage(data []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("unexpected status %d", status)
}

func remoteMessageContains(err error, substr string) bool {
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		return strings.Contains(strings.ToLower(remote.Message), substr)
	}
	return false
}

func remoteStatus(err error) int {
	var remote *models.RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	return 0
}
