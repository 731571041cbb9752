package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/wayfinder/internal/logger"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/jwebster45206/wayfinder/pkg/world"
	"github.com/prometheus/client_golang/prometheus"
)

// Query kinds served under /v1/scenarios/{id}/.
const (
	QueryDistance = "distance"
	QueryPath     = "path"
	QueryVicinity = "vicinity"
	QueryAcquire  = "acquire"
)

type StepResponse struct {
	Direction world.Direction `json:"direction"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Barrier   string          `json:"barrier,omitempty"`
}

type DistanceResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Found    bool   `json:"found"`
	Distance int    `json:"distance"`
}

type PathResponse struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Mode      string         `json:"mode"`
	Found     bool           `json:"found"`
	Hops      int            `json:"hops"`
	Cost      float64        `json:"cost"`
	Steps     []StepResponse `json:"steps"`
	Locations []string       `json:"locations"`
}

type ReachedResponse struct {
	Location string `json:"location"`
	Hops     int    `json:"hops"`
}

type BranchResponse struct {
	Index      int               `json:"index"`
	Parent     int               `json:"parent"`
	Location   string            `json:"location"`
	Hops       int               `json:"hops"`
	Permitted  []world.Direction `json:"permitted"`
	Directions []world.Direction `json:"directions"`
}

type VicinityResponse struct {
	From      string            `json:"from"`
	MaxHops   int               `json:"max_hops"`
	Locations []ReachedResponse `json:"locations"`
	Branches  []BranchResponse  `json:"branches,omitempty"`
}

type MatchResponse struct {
	ThingID  string   `json:"thing_id"`
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Hops     int      `json:"hops"`
	Path     []string `json:"path"`
}

type AcquireResponse struct {
	From    string          `json:"from"`
	Match   string          `json:"match"`
	Found   bool            `json:"found"`
	Matches []MatchResponse `json:"matches"`
}

// QueryHandler runs engine queries against a freshly instantiated scenario.
// Nothing is cached between requests, so every query sees the scenario as
// stored.
type QueryHandler struct {
	logger   *slog.Logger
	registry search.Registry
	maxHops  int
}

func NewQueryHandler(logger *slog.Logger, registry search.Registry, maxHops int) *QueryHandler {
	return &QueryHandler{
		logger:   logger,
		registry: registry,
		maxHops:  maxHops,
	}
}

// Supports reports whether kind names a query.
func (h *QueryHandler) Supports(kind string) bool {
	switch kind {
	case QueryDistance, QueryPath, QueryVicinity, QueryAcquire:
		return true
	}
	return false
}

// queryError is a bad parameter, reported with its own status.
type queryError struct {
	status int
	msg    string
}

func (e *queryError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &queryError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &queryError{status: http.StatusNotFound, msg: fmt.Sprintf(format, args...)}
}

// queryContext is everything a single query needs.
type queryContext struct {
	instance *scenario.Instance
	engine   *search.Engine
	policy   search.Policy
	from     *world.Location
	as       string
	maxHops  int
	params   url.Values
}

func (h *QueryHandler) Serve(w http.ResponseWriter, r *http.Request, id uuid.UUID, s *scenario.Scenario, kind string) {
	reqID := requestID(r)
	w.Header().Set(RequestIDHeader, reqID)
	log := logger.WithQuery(logger.WithRequestID(h.logger, reqID), id.String(), kind)
	timer := prometheus.NewTimer(queryDuration.WithLabelValues(kind))
	defer timer.ObserveDuration()

	in, err := s.Instantiate()
	if err != nil {
		logger.WithError(log, err).Error("Failed to instantiate scenario")
		queryTotal.WithLabelValues(kind, outcomeError).Inc()
		writeError(w, log, http.StatusInternalServerError, "Failed to instantiate scenario")
		return
	}

	qc, err := h.prepare(in, r.URL.Query(), log)
	if err == nil {
		var resp any
		switch kind {
		case QueryDistance:
			resp, err = h.distance(qc)
		case QueryPath:
			resp, err = h.path(qc)
		case QueryVicinity:
			resp, err = h.vicinity(qc)
		case QueryAcquire:
			resp, err = h.acquire(qc)
		}
		if err == nil {
			queryTotal.WithLabelValues(kind, outcomeOK).Inc()
			writeJSON(w, log, http.StatusOK, resp)
			return
		}
	}

	var qe *queryError
	if errors.As(err, &qe) {
		log.Debug("Rejected query", "status", qe.status, "reason", qe.msg)
		queryTotal.WithLabelValues(kind, outcomeRejected).Inc()
		writeError(w, log, qe.status, qe.msg)
		return
	}
	logger.WithError(log, err).Error("Query failed")
	queryTotal.WithLabelValues(kind, outcomeError).Inc()
	writeError(w, log, http.StatusInternalServerError, "Query failed")
}

func (h *QueryHandler) prepare(in *scenario.Instance, params url.Values, log *slog.Logger) (*queryContext, error) {
	from, err := h.location(in, params, "from")
	if err != nil {
		return nil, err
	}

	maxHops := h.maxHops
	if raw := params.Get("max"); raw != "" {
		maxHops, err = strconv.Atoi(raw)
		if err != nil {
			return nil, badRequest("max must be an integer")
		}
		if maxHops < 0 || maxHops > h.maxHops {
			return nil, badRequest("max must be between 0 and %d", h.maxHops)
		}
	}

	policyName := params.Get("policy")
	if policyName == "" {
		policyName = search.PolicyOpen
	}
	as := params.Get("as")
	policy, err := in.Policy(h.registry, policyName, as)
	if err != nil {
		if errors.Is(err, search.ErrUnknownPolicy) || errors.Is(err, search.ErrMissingTraveler) || errors.Is(err, scenario.ErrUnknownActor) {
			return nil, badRequest("%v (policies: %s)", err, strings.Join(h.registry.Names(), ", "))
		}
		return nil, err
	}

	eng := in.Engine(search.WithLogger(log))
	if as != "" {
		eng = eng.As(in.Actor(as))
	}

	return &queryContext{
		instance: in,
		engine:   eng,
		policy:   policy,
		from:     from,
		as:       as,
		maxHops:  maxHops,
		params:   params,
	}, nil
}

func (h *QueryHandler) location(in *scenario.Instance, params url.Values, key string) (*world.Location, error) {
	id := params.Get(key)
	if id == "" {
		return nil, badRequest("%s is required", key)
	}
	loc := in.World.Location(id)
	if loc == nil {
		return nil, notFound("unknown location %q", id)
	}
	return loc, nil
}

func (h *QueryHandler) distance(qc *queryContext) (any, error) {
	to, err := h.location(qc.instance, qc.params, "to")
	if err != nil {
		return nil, err
	}
	d, err := qc.engine.DistanceBetween(qc.from, to, qc.maxHops, qc.policy)
	if err != nil {
		return nil, err
	}
	return DistanceResponse{
		From:     qc.from.ID,
		To:       to.ID,
		Found:    d != search.Unreachable,
		Distance: d,
	}, nil
}

func (h *QueryHandler) path(qc *queryContext) (any, error) {
	to, err := h.location(qc.instance, qc.params, "to")
	if err != nil {
		return nil, err
	}

	mode := qc.params.Get("mode")
	var p *search.Path
	switch mode {
	case "", "shortest":
		mode = "shortest"
		p, err = qc.engine.ShortestPathBetween(qc.from, to, float64(qc.maxHops), qc.policy)
	case "first":
		p, err = qc.engine.FirstPathBetween(qc.from, to, qc.maxHops, qc.policy)
	default:
		return nil, badRequest("mode must be first or shortest")
	}
	if err != nil {
		return nil, err
	}

	resp := PathResponse{From: qc.from.ID, To: to.ID, Mode: mode, Steps: []StepResponse{}, Locations: []string{}}
	if p == nil {
		return resp, nil
	}
	resp.Found = true
	resp.Hops = p.Len()
	resp.Cost = p.Cost()
	resp.Steps = steps(p)
	resp.Locations = locationIDs(p.Locations())
	return resp, nil
}

func (h *QueryHandler) vicinity(qc *queryContext) (any, error) {
	resp := VicinityResponse{From: qc.from.ID, MaxHops: qc.maxHops}

	directional, _ := strconv.ParseBool(qc.params.Get("directional"))
	if !directional {
		reached, err := qc.engine.Vicinity(qc.from, qc.maxHops, qc.policy, nil)
		if err != nil {
			return nil, err
		}
		resp.Locations = reachedResponses(reached)
		return resp, nil
	}

	tree, err := qc.engine.DirectionalVicinity(qc.from, qc.maxHops, qc.policy, nil)
	if err != nil {
		return nil, err
	}
	resp.Locations = reachedResponses(tree.Locations())
	resp.Branches = make([]BranchResponse, tree.Len())
	for i := range resp.Branches {
		b := tree.Branch(i)
		resp.Branches[i] = BranchResponse{
			Index:      i,
			Parent:     b.Parent,
			Location:   b.Location.ID,
			Hops:       b.Hops,
			Permitted:  b.Permitted.Slice(),
			Directions: tree.Directions(i),
		}
	}
	return resp, nil
}

func (h *QueryHandler) acquire(qc *queryContext) (any, error) {
	match := qc.params.Get("match")
	if match == "" {
		return nil, badRequest("match is required")
	}
	needle := strings.ToLower(match)
	// The querying actor never finds itself.
	pred := func(t world.Thing) bool {
		if qc.as != "" && t.ThingID() == qc.as {
			return false
		}
		return t.ThingID() == match || strings.Contains(strings.ToLower(t.ThingName()), needle)
	}

	var opts []search.AcquireOption
	if ok, _ := strconv.ParseBool(qc.params.Get("locations")); ok {
		opts = append(opts, search.MatchLocations())
	}

	var found []search.Acquisition
	if all, _ := strconv.ParseBool(qc.params.Get("all")); all {
		var err error
		found, err = qc.engine.AcquireAll(qc.from, pred, qc.maxHops, qc.policy, opts...)
		if err != nil {
			return nil, err
		}
	} else {
		first, err := qc.engine.AcquireFirst(qc.from, pred, qc.maxHops, qc.policy, opts...)
		if err != nil {
			return nil, err
		}
		if first != nil {
			found = append(found, *first)
		}
	}

	resp := AcquireResponse{From: qc.from.ID, Match: match, Found: len(found) > 0, Matches: make([]MatchResponse, len(found))}
	for i, a := range found {
		resp.Matches[i] = MatchResponse{
			ThingID:  a.Thing.ThingID(),
			Name:     a.Thing.ThingName(),
			Location: a.Location.ID,
			Hops:     a.Path.Len(),
			Path:     locationIDs(a.Path.Locations()),
		}
	}
	return resp, nil
}

func steps(p *search.Path) []StepResponse {
	out := make([]StepResponse, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = StepResponse{Direction: e.Direction, From: e.From.ID, To: e.To.ID}
		if e.Barrier != nil {
			out[i].Barrier = e.Barrier.ID
		}
	}
	return out
}

func locationIDs(locs []*world.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

func reachedResponses(reached []search.Reached) []ReachedResponse {
	out := make([]ReachedResponse, len(reached))
	for i, r := range reached {
		out[i] = ReachedResponse{Location: r.Location.ID, Hops: r.Hops}
	}
	return out
}
