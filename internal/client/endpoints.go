package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"edupath/internal/models"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.post(ctx, "/auth/login", req, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.post(ctx, "/auth/register", req, &out)
	return out, err
}

// Me asks who owns cred. The attached bearer is not used and a 401 here does
// not fire the unauthorized hook; the caller decides what to clear.
func (c *Client) Me(ctx context.Context, cred models.Credential) (models.UserIdentity, error) {
	var out models.UserIdentity
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/auth/me",
		endpoint: "/auth/me",
		result:   &out,
		explicit: &cred,
	})
	return out, err
}

func (c *Client) Recommend(ctx context.Context, req models.RecommendationRequest) (models.RecommendationRecord, error) {
	var out models.RecommendationRecord
	err := c.post(ctx, "/career/recommendations", req, &out)
	return out, err
}

// RecommendationHistory returns the latest stored records, newest first.
func (c *Client) RecommendationHistory(ctx context.Context) ([]models.RecommendationRecord, error) {
	var out []models.RecommendationRecord
	err := c.get(ctx, "/career/recommendations/history", nil, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := c.get(ctx, "/dashboard/stats", nil, &out)
	return out, err
}

func (c *Client) Scholarships(ctx context.Context, f models.ScholarshipFilter) ([]models.Scholarship, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Eligibility != "" {
		q.Set("eligibility", f.Eligibility)
	}
	var out []models.Scholarship
	err := c.get(ctx, "/scholarships", q, &out)
	return out, err
}

func (c *Client) NearbyOpportunities(ctx context.Context, nq models.NearbyQuery) ([]models.Opportunity, error) {
	q := url.Values{}
	if nq.Latitude != nil {
		q.Set("latitude", strconv.FormatFloat(*nq.Latitude, 'f', -1, 64))
	}
	if nq.Longitude != nil {
		q.Set("longitude", strconv.FormatFloat(*nq.Longitude, 'f', -1, 64))
	}
	if nq.RadiusKM != nil {
		q.Set("radius", strconv.Itoa(*nq.RadiusKM))
	}
	var out []models.Opportunity
	err := c.get(ctx, "/opportunities/nearby", q, &out)
	return out, err
}

// StudentProfile returns nil when the student has not saved a profile yet.
func (c *Client) StudentProfile(ctx context.Context) (*models.StudentProfile, error) {
	var out *models.StudentProfile
	err := c.get(ctx, "/profile/student", nil, &out)
	return out, err
}

func (c *Client) UpdateStudentProfile(ctx context.Context, p models.StudentProfile) error {
	return c.put(ctx, "/profile/student", p, nil)
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.get(ctx, "/health", nil, &out)
	return out, err
}
