package retro

import (
	"net/url"
	"slices"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

const maxRetryDelay = 2 * time.Minute

type submission struct {
	api       string
	params    url.Values
	attempts  int
	next      time.Time
	inFlight  bool
	onSuccess func(body []byte)
}

// submissionQueue holds unlock and leaderboard submissions until the server
// accepts them. Transport and 5xx failures are retried with backoff.
type submissionQueue struct {
	items        []*submission
	disconnected bool
}

func newSubmissionQueue() submissionQueue {
	return submissionQueue{}
}

func (q *submissionQueue) push(s *submission) {
	q.items = append(q.items, s)
}

func (q *submissionQueue) remove(s *submission) bool {
	i := slices.Index(q.items, s)
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

func (q *submissionQueue) clear() {
	q.items = nil
	q.disconnected = false
}

func (q *submissionQueue) len() int { return len(q.items) }

func (q *submissionQueue) process(r *Runtime, now time.Time) {
	for _, s := range q.items {
		if s.inFlight || now.Before(s.next) {
			continue
		}
		s.inFlight = true
		s.attempts++
		r.post(s.api, s.params, func(status int, _ string, body []byte) {
			q.complete(r, s, status, body)
		})
	}
}

func (q *submissionQueue) complete(r *Runtime, s *submission, status int, body []byte) {
	s.inFlight = false
	if !slices.Contains(q.items, s) {
		return
	}

	_, err := decode[baseResponse](s.api, status, body)
	if err != nil {
		apiErr := err.(*APIError)
		if apiErr.retryable() {
			delay := retryDelay(s.attempts)
			s.next = r.clock().Add(delay)
			r.logger.Warn("submission failed, retrying",
				xslog.RequestKind(s.api),
				xslog.Status(status),
				xslog.Duration(delay),
				xslog.Error(err),
			)
			if !q.disconnected {
				q.disconnected = true
				r.raise(backend.Disconnected{})
			}
			return
		}
		q.remove(s)
		r.logger.Error("submission rejected", xslog.RequestKind(s.api), xslog.Error(err))
		r.raise(backend.ServerError{API: s.api, Message: apiErr.Message, Result: apiErr.Result()})
	} else {
		q.remove(s)
		if s.onSuccess != nil {
			s.onSuccess(body)
		}
	}

	if q.disconnected && q.len() == 0 {
		q.disconnected = false
		r.raise(backend.Reconnected{})
	}
}

func retryDelay(attempts int) time.Duration {
	delay := time.Second
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

func (r *Runtime) submitAward(id uint32) {
	params := r.withAuth("a", formatID(id))
	params.Set("h", boolParam(r.hardcore))
	params.Set("m", r.game.info.Hash)
	r.submissions.push(&submission{
		api:    apiAwardAchievement,
		params: params,
		onSuccess: func(body []byte) {
			resp, err := decode[awardResponse](apiAwardAchievement, 200, body)
			if err != nil || r.user == nil {
				return
			}
			if resp.Score > 0 {
				r.user.Score = resp.Score
			}
			if resp.SoftcoreScore > 0 {
				r.user.ScoreSoftcore = resp.SoftcoreScore
			}
		},
	})
}

func (r *Runtime) submitEntry(lb backend.Leaderboard, value int32) {
	params := r.withAuth("i", formatID(lb.ID))
	params.Set("s", formatInt(value))
	params.Set("m", r.game.info.Hash)
	r.submissions.push(&submission{
		api:    apiSubmitLeaderboard,
		params: params,
		onSuccess: func(body []byte) {
			resp, err := decode[submitResponse](apiSubmitLeaderboard, 200, body)
			if err != nil {
				return
			}
			r.raise(backend.LeaderboardScoreboard{
				Leaderboard: lb,
				Scoreboard: backend.Scoreboard{
					LeaderboardID:  lb.ID,
					SubmittedScore: formatScore(lb.Format, resp.Response.Score),
					BestScore:      formatScore(lb.Format, resp.Response.BestScore),
					NewRank:        resp.Response.RankInfo.Rank,
					NumEntries:     resp.Response.RankInfo.NumEntries,
				},
			})
		},
	})
}
