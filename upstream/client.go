// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/election-console/models"
)

// Error is a backend failure: transport-level or a non-2xx response. It is
// propagated as-is; the console never reclassifies backend errors.
type Error struct {
	StatusCode int    // 0 for transport errors
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the voting backend gateway. All methods take a context and
// the bearer token of the acting user; the client holds no per-user state.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// TokenPair is the backend's authentication response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims extracted from the access token payload. The backend signs the
// token; the console only reads the claims it needs (like the original
// browser client did) and never treats them as verified.
type Claims struct {
	UserID int64
	Role   string
}

// ParseClaims decodes the payload segment of a JWT access token.
func ParseClaims(accessToken string) (Claims, error) {
	parts := strings.Split(accessToken, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("malformed access token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var body struct {
		UserID int64           `json:"userId"`
		Roles  json.RawMessage `json:"roles"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return Claims{}, fmt.Errorf("failed to parse token payload: %w", err)
	}

	claims := Claims{UserID: body.UserID, Role: models.RoleVoter}

	// roles is either a single string or an array; the first entry wins.
	if len(body.Roles) > 0 {
		var one string
		var many []string
		if err := json.Unmarshal(body.Roles, &one); err == nil {
			claims.Role = one
		} else if err := json.Unmarshal(body.Roles, &many); err == nil && len(many) > 0 {
			claims.Role = many[0]
		}
	}

	return claims, nil
}

// Authentication

func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	req := models.LoginRequest{Username: username, Password: password}
	err := c.send(ctx, http.MethodPost, "", "/auth/login", req, &pair)
	return pair, err
}

func (c *Client) Register(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	req := struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{username, password, models.RoleVoter}
	err := c.send(ctx, http.MethodPost, "", "/auth/register", req, &pair)
	return pair, err
}

// Reads

func (c *Client) Elections(ctx context.Context, token string) ([]models.Election, error) {
	var elections []models.Election
	err := c.get(ctx, token, "/election/all", &elections)
	return elections, err
}

func (c *Client) Electors(ctx context.Context, token string) ([]models.Candidate, error) {
	var electors []models.Candidate
	err := c.get(ctx, token, "/elector/all", &electors)
	return electors, err
}

func (c *Client) Results(ctx context.Context, token string, electionID int64) ([]models.ElectionResult, error) {
	var results []models.ElectionResult
	err := c.get(ctx, token, "/result/"+strconv.FormatInt(electionID, 10), &results)
	return results, err
}

func (c *Client) MyVotes(ctx context.Context, token string) ([]models.Vote, error) {
	var votes []models.Vote
	err := c.get(ctx, token, "/vote/my-votes", &votes)
	return votes, err
}

// CurrentVoter returns the caller's voter record, or nil if the user has not
// submitted identity verification yet.
func (c *Client) CurrentVoter(ctx context.Context, token string) (*models.Voter, error) {
	var voter models.Voter
	err := c.get(ctx, token, "/voter/me", &voter)
	if upErr, ok := err.(*Error); ok && upErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

func (c *Client) Voters(ctx context.Context, token string) ([]models.Voter, error) {
	var voters []models.Voter
	err := c.get(ctx, token, "/admin/voters", &voters)
	return voters, err
}

// Writes

func (c *Client) SubmitVote(ctx context.Context, token string, vote models.VoteRequest) error {
	return c.send(ctx, http.MethodPost, token, "/vote", vote, nil)
}

// VerificationForm is a voter's identity submission: personal details plus
// a scan of the identity document for the backend's OCR intake.
type VerificationForm struct {
	CIN       string
	FirstName string
	LastName  string
	DOB       string
	Filename  string
	Document  io.Reader
}

// SubmitVerification uploads the form as multipart data and returns the
// voter record the backend created or updated.
func (c *Client) SubmitVerification(ctx context.Context, token string, form VerificationForm) (*models.Voter, error) {
	fields := map[string]string{
		"cin":       form.CIN,
		"firstName": form.FirstName,
		"lastName":  form.LastName,
		"dob":       form.DOB,
	}

	var voter models.Voter
	err := c.postMultipart(ctx, token, "/voter/register", fields, "file", form.Filename, form.Document, &voter)
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// ElectorForm is an admin's elector creation submission. The photo is
// optional; the backend accepts the record without one.
type ElectorForm struct {
	FirstName string
	LastName  string
	Party     string
	Bio       string
	Filename  string
	Photo     io.Reader
}

// CreateElector registers a new elector (candidate) with the backend and
// returns the created record.
func (c *Client) CreateElector(ctx context.Context, token string, form ElectorForm) (models.Candidate, error) {
	fields := map[string]string{
		"firstName": form.FirstName,
		"lastName":  form.LastName,
		"party":     form.Party,
		"bio":       form.Bio,
	}

	var elector models.Candidate
	err := c.postMultipart(ctx, token, "/elector", fields, "image", form.Filename, form.Photo, &elector)
	return elector, err
}

func (c *Client) CreateElection(ctx context.Context, token string, req models.CreateElectionRequest) (models.Election, error) {
	var election models.Election
	err := c.send(ctx, http.MethodPost, token, "/admin/elections", req, &election)
	return election, err
}

func (c *Client) UpdateElectionStatus(ctx context.Context, token string, electionID int64, status models.ElectionStatus) (models.Election, error) {
	var election models.Election
	path := fmt.Sprintf("/admin/elections/%d/status?status=%s", electionID, url.QueryEscape(string(status)))
	err := c.send(ctx, http.MethodPut, token, path, nil, &election)
	return election, err
}

func (c *Client) AddCandidate(ctx context.Context, token string, electionID, candidateID int64) error {
	path := fmt.Sprintf("/admin/elections/%d/candidates/%d", electionID, candidateID)
	return c.send(ctx, http.MethodPost, token, path, nil, nil)
}

func (c *Client) DeleteElection(ctx context.Context, token string, electionID int64) error {
	path := fmt.Sprintf("/admin/elections/%d", electionID)
	return c.send(ctx, http.MethodDelete, token, path, nil, nil)
}

func (c *Client) PublishResults(ctx context.Context, token string, electionID int64) error {
	path := fmt.Sprintf("/admin/elections/%d/publish", electionID)
	return c.send(ctx, http.MethodPost, token, path, nil, nil)
}

func (c *Client) ApproveVoter(ctx context.Context, token string, voterID int64) error {
	path := fmt.Sprintf("/admin/voters/%d/approve", voterID)
	return c.send(ctx, http.MethodPut, token, path, nil, nil)
}

func (c *Client) RejectVoter(ctx context.Context, token string, voterID int64, reason string) error {
	path := fmt.Sprintf("/admin/voters/%d/reject", voterID)
	return c.send(ctx, http.MethodPut, token, path, models.RejectVoterRequest{Reason: reason}, nil)
}

// Plumbing

func (c *Client) get(ctx context.Context, token, path string, out any) error {
	return c.send(ctx, http.MethodGet, token, path, nil, out)
}

// postMultipart encodes fields plus an optional file and posts them. A nil
// file skips the file part entirely.
func (c *Client) postMultipart(ctx context.Context, token, path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
		if _, err := io.Copy(fw, file); err != nil {
			return fmt.Errorf("failed to read upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, token, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}
	return nil
}
