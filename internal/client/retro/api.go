package retro

import (
	"fmt"
	"net/http"
	"net/url"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/cheevo/internal/backend"
)

const requestPath = "/dorequest.php"

const (
	apiLogin             = "login2"
	apiGameID            = "gameid"
	apiPatch             = "patch"
	apiStartSession      = "startsession"
	apiAwardAchievement  = "awardachievement"
	apiLeaderboardInfo   = "lbinfo"
	apiSubmitLeaderboard = "submitlbentry"
	apiPing              = "ping"
)

const (
	codeInvalidCredentials = "invalid_credentials"
	codeExpiredToken       = "expired_token"
	codeAccessDenied       = "access_denied"
)

type APIError struct {
	API        string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("retro api %s: %d %s", e.API, e.StatusCode, e.Message)
}

// Result maps the failure onto a runtime result code.
func (e *APIError) Result() backend.Result {
	switch {
	case e.StatusCode < 0:
		return backend.ResultNoResponse
	case e.Code == codeInvalidCredentials:
		return backend.ResultInvalidCredentials
	case e.Code == codeExpiredToken:
		return backend.ResultExpiredToken
	case e.Code == codeAccessDenied || e.StatusCode == http.StatusForbidden:
		return backend.ResultAccessDenied
	case e.Code == "invalid_json":
		return backend.ResultInvalidJSON
	default:
		return backend.ResultAPIFailure
	}
}

// retryable reports whether a queued submission should be retried.
func (e *APIError) retryable() bool {
	return e.StatusCode < 0 || e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type baseResponse struct {
	Success bool   `json:"Success"`
	Error   string `json:"Error"`
	Code    string `json:"Code"`
}

type loginResponse struct {
	baseResponse
	User          string `json:"User"`
	DisplayName   string `json:"DisplayName"`
	Token         string `json:"Token"`
	Score         uint32 `json:"Score"`
	SoftcoreScore uint32 `json:"SoftcoreScore"`
	AvatarURL     string `json:"AvatarUrl"`
}

type gameIDResponse struct {
	baseResponse
	GameID uint32 `json:"GameID"`
}

type patchAchievement struct {
	ID             uint32 `json:"ID"`
	Title          string `json:"Title"`
	Description    string `json:"Description"`
	Points         uint32 `json:"Points"`
	BadgeName      string `json:"BadgeName"`
	BadgeURL       string `json:"BadgeURL"`
	BadgeLockedURL string `json:"BadgeLockedURL"`
	Flags          uint32 `json:"Flags"`
}

type patchLeaderboard struct {
	ID            uint32 `json:"ID"`
	Title         string `json:"Title"`
	Description   string `json:"Description"`
	Format        string `json:"Format"`
	LowerIsBetter bool   `json:"LowerIsBetter"`
	Hidden        bool   `json:"Hidden"`
}

type patchData struct {
	ID                uint32             `json:"ID"`
	Title             string             `json:"Title"`
	ImageIconURL      string             `json:"ImageIconURL"`
	RichPresencePatch string             `json:"RichPresencePatch"`
	Achievements      []patchAchievement `json:"Achievements"`
	Leaderboards      []patchLeaderboard `json:"Leaderboards"`
}

type patchResponse struct {
	baseResponse
	PatchData patchData `json:"PatchData"`
}

type unlock struct {
	ID   uint32 `json:"ID"`
	When int64  `json:"When"`
}

type startSessionResponse struct {
	baseResponse
	HardcoreUnlocks []unlock `json:"HardcoreUnlocks"`
	Unlocks         []unlock `json:"Unlocks"`
	ServerNow       int64    `json:"ServerNow"`
}

type awardResponse struct {
	baseResponse
	Score                 uint32 `json:"Score"`
	SoftcoreScore         uint32 `json:"SoftcoreScore"`
	AchievementID         uint32 `json:"AchievementID"`
	AchievementsRemaining uint32 `json:"AchievementsRemaining"`
}

type lbEntry struct {
	User          string `json:"User"`
	Rank          uint32 `json:"Rank"`
	Index         uint32 `json:"Index"`
	Score         int32  `json:"Score"`
	DateSubmitted int64  `json:"DateSubmitted"`
}

type lbInfoResponse struct {
	baseResponse
	LeaderboardData struct {
		LBID         uint32    `json:"LBID"`
		TotalEntries uint32    `json:"TotalEntries"`
		Entries      []lbEntry `json:"Entries"`
	} `json:"LeaderboardData"`
}

type submitResponse struct {
	baseResponse
	Response struct {
		Score     int32 `json:"Score"`
		BestScore int32 `json:"BestScore"`
		RankInfo  struct {
			Rank       uint32 `json:"Rank"`
			NumEntries uint32 `json:"NumEntries"`
		} `json:"RankInfo"`
	} `json:"Response"`
}

type successful interface {
	base() baseResponse
}

func (r baseResponse) base() baseResponse { return r }

// decode turns a completed exchange into a typed response, or an *APIError
// when the transport failed, the status is an error or Success is false.
func decode[T successful](api string, status int, body []byte) (T, error) {
	var out T
	if status < 0 {
		return out, &APIError{API: api, StatusCode: status, Message: "no response from server"}
	}
	if err := go_json.Unmarshal(body, &out); err != nil {
		if status >= http.StatusBadRequest {
			return out, &APIError{API: api, StatusCode: status, Message: http.StatusText(status)}
		}
		return out, &APIError{API: api, StatusCode: status, Code: "invalid_json", Message: fmt.Sprintf("decoding response: %v", err)}
	}
	base := out.base()
	if status >= http.StatusBadRequest || !base.Success {
		msg := base.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return out, &APIError{API: api, StatusCode: status, Code: base.Code, Message: msg}
	}
	return out, nil
}

func encodeForm(api string, params url.Values) string {
	values := url.Values{"r": {api}}
	for k, v := range params {
		values[k] = v
	}
	return values.Encode()
}
