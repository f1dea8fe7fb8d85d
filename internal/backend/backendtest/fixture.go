package backendtest

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"
)

// Fixture describes a fake server with one user and one game.
type Fixture struct {
	Username string
	Password string
	Token    string

	Hash         string
	GameID       uint32
	Title        string
	Achievements int
	Points       uint32
	Leaderboards []uint32

	// LeaderboardTotal is the entry count reported for every leaderboard.
	LeaderboardTotal uint32
	// UserRank places Username on every leaderboard.
	UserRank uint32
}

func DefaultFixture() Fixture {
	return Fixture{
		Username:         "alice",
		Password:         "hunter2",
		Token:            "tok-alice",
		Hash:             "abc123",
		GameID:           42,
		Title:            "Test Game",
		Achievements:     10,
		Points:           5,
		Leaderboards:     []uint32{5},
		LeaderboardTotal: 100,
		UserRank:         37,
	}
}

func mustJSON(v any) string {
	b, err := go_json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func failure(code string, msg string) string {
	return mustJSON(map[string]any{"Success": false, "Code": code, "Error": msg})
}

// Serve registers handlers for every API the retro runtime uses.
func (n *Network) Serve(f Fixture) {
	n.Handle("login2", func(form url.Values) (int, string) {
		if form.Get("u") != f.Username {
			return http.StatusUnauthorized, failure("invalid_credentials", "Invalid user/password combination.")
		}
		if p := form.Get("p"); p != "" && p != f.Password {
			return http.StatusUnauthorized, failure("invalid_credentials", "Invalid user/password combination.")
		}
		if t := form.Get("t"); t != "" && t != f.Token {
			return http.StatusUnauthorized, failure("expired_token", "The access token has expired.")
		}
		return http.StatusOK, mustJSON(map[string]any{
			"Success": true, "User": f.Username, "DisplayName": f.Username, "Token": f.Token, "Score": 100,
		})
	})

	n.Handle("gameid", func(form url.Values) (int, string) {
		id := uint32(0)
		if form.Get("m") == f.Hash {
			id = f.GameID
		}
		return http.StatusOK, mustJSON(map[string]any{"Success": true, "GameID": id})
	})

	n.Handle("patch", func(url.Values) (int, string) {
		achievements := make([]map[string]any, 0, f.Achievements)
		for i := 1; i <= f.Achievements; i++ {
			achievements = append(achievements, map[string]any{
				"ID": i, "Title": fmt.Sprintf("Achievement %d", i), "Description": "Do the thing",
				"Points": f.Points, "BadgeName": fmt.Sprintf("%05d", i), "Flags": 3,
			})
		}
		leaderboards := make([]map[string]any, 0, len(f.Leaderboards))
		for _, id := range f.Leaderboards {
			leaderboards = append(leaderboards, map[string]any{
				"ID": id, "Title": fmt.Sprintf("Leaderboard %d", id), "Format": "SCORE",
			})
		}
		return http.StatusOK, mustJSON(map[string]any{
			"Success": true,
			"PatchData": map[string]any{
				"ID": f.GameID, "Title": f.Title, "RichPresencePatch": "Display:\nPlaying",
				"Achievements": achievements, "Leaderboards": leaderboards,
			},
		})
	})

	n.HandleJSON("startsession", `{"Success":true,"HardcoreUnlocks":[],"Unlocks":[],"ServerNow":1700000000}`)
	n.HandleJSON("awardachievement", `{"Success":true,"Score":105,"AchievementsRemaining":9}`)
	n.HandleJSON("submitlbentry", `{"Success":true,"Response":{"Score":1234,"BestScore":1234,"RankInfo":{"Rank":3,"NumEntries":100}}}`)
	n.HandleJSON("ping", `{"Success":true}`)

	n.Handle("lbinfo", func(form url.Values) (int, string) {
		count, _ := strconv.Atoi(form.Get("c"))
		first := 1
		if user := form.Get("u"); user != "" {
			first = max(1, int(f.UserRank)-count/2+1)
		} else if o, err := strconv.Atoi(form.Get("o")); err == nil {
			first = o + 1
		}
		entries := make([]map[string]any, 0, count)
		for rank := first; rank < first+count && rank <= int(f.LeaderboardTotal); rank++ {
			user := "player" + strconv.Itoa(rank)
			if uint32(rank) == f.UserRank {
				user = f.Username
			}
			entries = append(entries, map[string]any{
				"User": user, "Rank": rank, "Index": rank, "Score": 10000 - rank, "DateSubmitted": 1700000000,
			})
		}
		lbid, _ := strconv.Atoi(strings.TrimSpace(form.Get("i")))
		return http.StatusOK, mustJSON(map[string]any{
			"Success": true,
			"LeaderboardData": map[string]any{
				"LBID": lbid, "TotalEntries": f.LeaderboardTotal, "Entries": entries,
			},
		})
	})
}
