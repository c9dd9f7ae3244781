package recruiting

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL = "http://localhost:8000"
	userAgent     = "spigell/hire-pipeline"
)

const (
	candidatesPath  = "/api/candidates/"
	interviewsPath  = "/api/interviews/"
	slotsPath       = "/api/interviews/slots/"
	evaluationsPath = "/api/evaluation/crud/"
	questionsPath   = "/api/ai-interview/questions/"
	responsesPath   = "/api/ai-interview/responses/"
	analyticsPath   = "/api/dashboard/analytics/summary/"
)

// legacyEvaluationsPath is the only endpoint that accepts evaluation deletes.
const legacyEvaluationsPath = "/api/evaluations/"

// Client talks to the recruiting backend REST API.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}
