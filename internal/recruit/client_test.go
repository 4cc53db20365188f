package recruit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/storage"
)

// fakeRecruit stands in for the accounts endpoint and the API in one
// server, counting token exchanges so caching can be asserted.
type fakeRecruit struct {
	mux            *http.ServeMux
	tokenExchanges int64
	lastAuth       string
}

func newFakeRecruit(t *testing.T) (*fakeRecruit, *Client) {
	t.Helper()

	f := &fakeRecruit{mux: http.NewServeMux()}
	f.mux.HandleFunc("/oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.tokenExchanges, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-abc", r.Form.Get("refresh_token"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-xyz",
			"expires_in":   3600,
		})
	})

	server := httptest.NewServer(f.mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, server.URL+"/oauth/v2/token", "refresh-abc", "cid", "secret")
	return f, client
}

func (f *fakeRecruit) handle(t *testing.T, pattern string, status int, body interface{}) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		w.WriteHeader(status)
		if body != nil {
			require.NoError(t, json.NewEncoder(w).Encode(body))
		}
	})
}

func TestListOpenJobsMapsRecordsAndCachesToken(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.handle(t, "/JobOpenings", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"id":                 "123",
				"Job_Opening_Name":   "Java Developer",
				"Job_Description":    "Backend work.",
				"Required_Skills":    "Java",
				"Job_Opening_Status": "In-progress",
			},
			{
				"id":            "456",
				"Posting_Title": "Sales Executive",
			},
		},
	})

	ctx := context.Background()
	jobs, err := client.ListOpenJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Java Developer", jobs[0].Title)
	assert.Equal(t, models.JobStatusOpen, jobs[0].Status)
	assert.Equal(t, "Sales Executive", jobs[1].Title, "Posting_Title is the fallback title")
	assert.Equal(t, "Zoho-oauthtoken token-xyz", fake.lastAuth)

	// The cached token serves the second call; only one exchange hits
	// the accounts endpoint
	_, err = client.ListOpenJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.tokenExchanges))
}

func TestGetJobNotFound(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.handle(t, "/JobOpenings/999", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{},
	})

	_, err := client.GetJob(context.Background(), "999")
	assert.True(t, storage.IsNotFound(err))
}

func TestSearchCandidateNoContentIsNotFound(t *testing.T) {
	fake, client := newFakeRecruit(t)
	// The search endpoint answers 204 with an empty body when nothing
	// matches
	fake.handle(t, "/Candidates/search", http.StatusNoContent, nil)

	_, err := client.SearchCandidateByEmail(context.Background(), "nobody@x.com")
	assert.True(t, storage.IsNotFound(err))
}

func TestSearchCandidateMapsRecord(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.handle(t, "/Candidates/search", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{{
			"id":         "CAND1",
			"First_Name": "Jane",
			"Last_Name":  "Doe",
			"Email":      "jane@x.com",
			"Mobile":     "+911234567890",
		}},
	})

	candidate, err := client.SearchCandidateByEmail(context.Background(), "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, "CAND1", candidate.ID)
	assert.Equal(t, "+911234567890", candidate.Phone)
}

func TestListApplicationsJobNameShapes(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.handle(t, "/Candidates/CAND1/Applications", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{
			{"id": "APP1", "Job_Opening_Name": "Java Developer", "Stage": "Screening"},
			{"id": "APP2", "Job_Opening_Name": map[string]string{"name": "Sales Executive"}},
		},
	})

	apps, err := client.ListApplications(context.Background(), "CAND1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "Java Developer", apps[0].JobTitle)
	assert.Equal(t, "Screening", apps[0].Stage)
	assert.Equal(t, "Sales Executive", apps[1].JobTitle, "object-shaped job name resolves via its name field")
}

func TestCreateCandidateReturnsRecordID(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.mux.HandleFunc("/Candidates", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		assert.Equal(t, "Jane", payload.Data[0]["First_Name"])
		assert.Equal(t, "Chatbot", payload.Data[0]["Source"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{
				"details": map[string]string{"id": "CAND42"},
			}},
		})
	})

	created, err := client.CreateCandidate(context.Background(), &models.Candidate{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Phone:     "+911234567890",
		Source:    "Chatbot",
	})
	require.NoError(t, err)
	assert.Equal(t, "CAND42", created.ID)
	assert.Equal(t, "jane@x.com", created.Email)
}

func TestAssociateSendsBothIDs(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.mux.HandleFunc("/Candidates/actions/associate", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)

		var payload struct {
			Data []struct {
				IDs      []string `json:"ids"`
				JobIDs   []string `json:"jobids"`
				Status   string   `json:"status"`
				Comments string   `json:"comments"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		assert.Equal(t, []string{"CAND42"}, payload.Data[0].IDs)
		assert.Equal(t, []string{"123"}, payload.Data[0].JobIDs)
		assert.Equal(t, "Applied", payload.Data[0].Status)

		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	err := client.Associate(context.Background(), "CAND42", "123", "Applied", "Verified via SMS OTP")
	require.NoError(t, err)
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	fake, client := newFakeRecruit(t)
	fake.handle(t, "/JobOpenings", http.StatusInternalServerError, map[string]string{"message": "boom"})

	_, err := client.ListOpenJobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTokenExchangeFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_client"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, server.URL+"/oauth/v2/token", "refresh-abc", "cid", "secret")
	_, err := client.ListOpenJobs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
}
