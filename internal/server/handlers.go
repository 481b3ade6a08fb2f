package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/schedule"
)

type sessionView struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Seed      int64     `json:"seed"`
	Host      string    `json:"host_conference"`
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"created_at"`
}

type teamView struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

type gameView struct {
	Opponent teamView `json:"opponent"`
	Category string   `json:"category"`
	Side     string   `json:"side"`
}

type scheduleView struct {
	Session            string     `json:"session"`
	Team               teamView   `json:"team"`
	Rank               int        `json:"rank"`
	RankLabel          string     `json:"rank_label"`
	IntraDivision      string     `json:"intra_division"`
	InterDivision      string     `json:"inter_division"`
	IntraRankDivisions []string   `json:"intra_rank_divisions"`
	InterRankDivision  string     `json:"inter_rank_division"`
	Games              []gameView `json:"games"`
	Home               int        `json:"home"`
	Away               int        `json:"away"`
}

type rankedTeam struct {
	Rank int    `json:"rank"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type divisionStandings struct {
	Conference string       `json:"conference"`
	Division   string       `json:"division"`
	Teams      []rankedTeam `json:"teams"`
}

type pairingView struct {
	A string `json:"a"`
	B string `json:"b"`
}

type rankPairingView struct {
	Division  string   `json:"division"`
	IntraRank []string `json:"intra_rank"`
	InterRank string   `json:"inter_rank"`
}

type pairingsView struct {
	Intra []pairingView     `json:"intra"`
	Inter []pairingView     `json:"inter"`
	Rank  []rankPairingView `json:"rank"`
}

func newSessionView(sess *schedule.Session) sessionView {
	return sessionView{
		ID:        sess.ID.String(),
		Year:      sess.Year,
		Seed:      sess.Seed,
		Host:      sess.Host,
		Strategy:  sess.Strategy,
		CreatedAt: sess.CreatedAt,
	}
}

func newTeamView(t *league.Team) teamView {
	return teamView{Code: t.Code, Name: t.Name, Conference: t.Conference, Division: t.Division}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionView(s.Current()))
}

// handleRegenerate takes optional year and seed query parameters. The year
// defaults to the current session's, the seed to the clock.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	year := s.Current().Year
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year "+strconv.Quote(v))
			return
		}
		year = y
	}
	seed := time.Now().UnixNano()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid seed "+strconv.Quote(v))
			return
		}
		seed = n
	}

	sess, err := s.Regenerate(year, seed)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidYear) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("regenerate failed")
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}
	writeJSON(w, http.StatusCreated, newSessionView(sess))
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams := s.lg.Teams()
	out := make([]teamView, len(teams))
	for i, t := range teams {
		out[i] = newTeamView(t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	sess := s.Current()
	ts, err := sess.Schedule(chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, schedule.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("schedule lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	view := scheduleView{
		Session:           sess.ID.String(),
		Team:              newTeamView(ts.Team),
		Rank:              ts.Rank,
		RankLabel:         schedule.Ordinal(ts.Rank),
		IntraDivision:     ts.IntraDivision.String(),
		InterDivision:     ts.InterDivision.String(),
		InterRankDivision: ts.InterRankDivision.String(),
	}
	for _, d := range ts.IntraRankDivisions {
		view.IntraRankDivisions = append(view.IntraRankDivisions, d.String())
	}
	for _, e := range ts.Entries {
		view.Games = append(view.Games, gameView{
			Opponent: newTeamView(e.Opponent),
			Category: e.Category.String(),
			Side:     e.Side.String(),
		})
	}
	view.Home, view.Away = ts.Totals()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	sess := s.Current()
	var out []divisionStandings
	for _, d := range s.lg.Divisions() {
		ds := divisionStandings{Conference: d.Conference, Division: d.Name}
		for i, t := range sess.Standings[d.Key()] {
			ds.Teams = append(ds.Teams, rankedTeam{Rank: i + 1, Code: t.Code, Name: t.Name})
		}
		out = append(out, ds)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePairings(w http.ResponseWriter, r *http.Request) {
	sess := s.Current()
	view := pairingsView{
		Intra: pairingViews(sess.Intra),
		Inter: pairingViews(sess.Inter),
	}
	for _, d := range s.lg.Divisions() {
		intraRank, err := schedule.IntraRankOpponents(s.lg, d.Key(), sess.Intra)
		if err != nil {
			s.log.Error().Err(err).Msg("rank pairing lookup failed")
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		interRank, err := schedule.InterRankOpponent(d.Key(), sess.Inter)
		if err != nil {
			s.log.Error().Err(err).Msg("rank pairing lookup failed")
			writeError(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		rv := rankPairingView{Division: d.Key().String(), InterRank: interRank.String()}
		for _, k := range intraRank {
			rv.IntraRank = append(rv.IntraRank, k.String())
		}
		view.Rank = append(view.Rank, rv)
	}
	writeJSON(w, http.StatusOK, view)
}

func pairingViews(ps schedule.Pairings) []pairingView {
	out := make([]pairingView, len(ps))
	for i, p := range ps {
		out[i] = pairingView{A: p.A.String(), B: p.B.String()}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
