package retro

import (
	"net/url"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

func (r *Runtime) BeginLoginWithPassword(username string, password string, cb backend.Callback) backend.AsyncHandle {
	return r.beginLogin(url.Values{"u": {username}, "p": {password}}, cb)
}

func (r *Runtime) BeginLoginWithToken(username string, token string, cb backend.Callback) backend.AsyncHandle {
	return r.beginLogin(url.Values{"u": {username}, "t": {token}}, cb)
}

func (r *Runtime) beginLogin(params url.Values, cb backend.Callback) backend.AsyncHandle {
	req := r.begin(apiLogin)

	r.post(apiLogin, params, func(status int, _ string, body []byte) {
		if r.finish(req) {
			cb(backend.ResultAborted, "")
			return
		}

		resp, err := decode[loginResponse](apiLogin, status, body)
		if err != nil {
			apiErr := err.(*APIError)
			r.logger.Warn("login failed", xslog.Username(params.Get("u")), xslog.Error(err))
			cb(apiErr.Result(), apiErr.Message)
			return
		}

		r.user = &backend.User{
			Username:      resp.User,
			DisplayName:   resp.DisplayName,
			Token:         resp.Token,
			Score:         resp.Score,
			ScoreSoftcore: resp.SoftcoreScore,
			AvatarURL:     resp.AvatarURL,
		}
		if r.user.DisplayName == "" {
			r.user.DisplayName = r.user.Username
		}
		r.logger.Info("logged in", xslog.Username(r.user.Username))
		cb(backend.ResultOK, "")
	})

	return req.handle
}
