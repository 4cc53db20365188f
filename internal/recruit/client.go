// Package recruit implements the remote talent store against the Zoho
// Recruit REST API.
package recruit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/storage"
)

const defaultTimeout = 20 * time.Second

// Client is the storage.TalentStore implementation backed by the
// remote recruiting API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
}

// NewClientFromEnv builds a client from the ZOHO_RECRUIT_* environment
// variables. Missing credentials are an error; main.go falls back to a
// local store in that case.
func NewClientFromEnv() (*Client, error) {
	base := os.Getenv("ZOHO_RECRUIT_BASE")
	refreshToken := os.Getenv("ZOHO_RECRUIT_REFRESH_TOKEN")
	clientID := os.Getenv("ZOHO_RECRUIT_CLIENT_ID")
	clientSecret := os.Getenv("ZOHO_RECRUIT_CLIENT_SECRET")

	if base == "" || refreshToken == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing Zoho Recruit credentials in environment variables")
	}

	return NewClient(base, os.Getenv("ZOHO_ACCOUNTS_URL"), refreshToken, clientID, clientSecret), nil
}

// NewClient builds a client against the given API base URL.
func NewClient(baseURL, accountsURL, refreshToken, clientID, clientSecret string) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     newTokenSource(httpClient, accountsURL, refreshToken, clientID, clientSecret),
	}
}

// Remote record shapes. Field names follow the upstream API.
type jobRecord struct {
	ID             string `json:"id"`
	JobOpeningName string `json:"Job_Opening_Name"`
	PostingTitle   string `json:"Posting_Title"`
	JobDescription string `json:"Job_Description"`
	RequiredSkills string `json:"Required_Skills"`
	JobStatus      string `json:"Job_Opening_Status"`
}

type candidateRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"First_Name"`
	LastName  string `json:"Last_Name"`
	Email     string `json:"Email"`
	Mobile    string `json:"Mobile"`
	Source    string `json:"Source"`
}

type applicationRecord struct {
	ID             string          `json:"id"`
	JobOpeningName json.RawMessage `json:"Job_Opening_Name"` // string or {name}
	Stage          string          `json:"Stage"`
}

func (r applicationRecord) jobName() string {
	if len(r.JobOpeningName) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(r.JobOpeningName, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(r.JobOpeningName, &asObject); err == nil {
		return asObject.Name
	}
	return ""
}

func (r jobRecord) title() string {
	if r.JobOpeningName != "" {
		return r.JobOpeningName
	}
	return r.PostingTitle
}

func (r jobRecord) toModel() *models.JobOpening {
	status := models.JobStatusOpen
	if r.JobStatus != "" && r.JobStatus != "In-progress" {
		status = r.JobStatus
	}
	return &models.JobOpening{
		ID:             r.ID,
		Title:          r.title(),
		Description:    r.JobDescription,
		RequiredSkills: r.RequiredSkills,
		Status:         status,
	}
}

func (c *Client) ListOpenJobs(ctx context.Context) ([]*models.JobOpening, error) {
	var out struct {
		Data []jobRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/JobOpenings", nil, &out); err != nil {
		return nil, err
	}

	jobs := make([]*models.JobOpening, 0, len(out.Data))
	for _, record := range out.Data {
		jobs = append(jobs, record.toModel())
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*models.JobOpening, error) {
	var out struct {
		Data []jobRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/JobOpenings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, storage.ErrNotFound
	}
	return out.Data[0].toModel(), nil
}

func (c *Client) SearchCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	criteria := fmt.Sprintf("(Email:equals:%s)", email)
	endpoint := "/Candidates/search?criteria=" + url.QueryEscape(criteria)

	var out struct {
		Data []candidateRecord `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, storage.ErrNotFound
	}

	record := out.Data[0]
	return &models.Candidate{
		ID:        record.ID,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Email:     record.Email,
		Phone:     record.Mobile,
		Source:    record.Source,
	}, nil
}

func (c *Client) ListApplications(ctx context.Context, candidateID string) ([]*models.Application, error) {
	var out struct {
		Data []applicationRecord `json:"data"`
	}
	endpoint := "/Candidates/" + url.PathEscape(candidateID) + "/Applications"
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	apps := make([]*models.Application, 0, len(out.Data))
	for _, record := range out.Data {
		apps = append(apps, &models.Application{
			ID:          record.ID,
			CandidateID: candidateID,
			JobTitle:    record.jobName(),
			Stage:       record.Stage,
		})
	}
	return apps, nil
}

func (c *Client) CreateCandidate(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	payload := map[string]interface{}{
		"data": []map[string]interface{}{{
			"First_Name": candidate.FirstName,
			"Last_Name":  candidate.LastName,
			"Email":      candidate.Email,
			"Mobile":     candidate.Phone,
			"Source":     candidate.Source,
		}},
	}

	var out struct {
		Data []struct {
			Details struct {
				ID string `json:"id"`
			} `json:"details"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/Candidates", payload, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 || out.Data[0].Details.ID == "" {
		return nil, fmt.Errorf("recruit: candidate creation returned no record id")
	}

	created := *candidate
	created.ID = out.Data[0].Details.ID
	return &created, nil
}

func (c *Client) Associate(ctx context.Context, candidateID, jobID, status, comments string) error {
	payload := map[string]interface{}{
		"data": []map[string]interface{}{{
			"ids":      []string{candidateID},
			"jobids":   []string{jobID},
			"status":   status,
			"comments": comments,
		}},
	}
	return c.do(ctx, http.MethodPut, "/Candidates/actions/associate", payload, nil)
}

// do runs one authenticated API call and decodes the JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("recruit: encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("recruit: build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recruit: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	// The search endpoints answer 204 when nothing matches
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("recruit: %s %s returned %d: %s", method, endpoint, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("recruit: decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}
