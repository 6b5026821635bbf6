package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/n8henrie/knapsack/internal/codec"
	"github.com/n8henrie/knapsack/internal/knapsack"
	"github.com/n8henrie/knapsack/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler wires solvers and storage dependencies into HTTP handlers.
type Handler struct {
	storage storage.Storage
	logger  *zap.Logger

	defaultStrategy knapsack.Strategy
	maxItems        map[knapsack.Strategy]int
	solvers         map[knapsack.Strategy]knapsack.Solver

	clock    func() time.Time
	upgrader websocket.Upgrader
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithLogger sets the logger used for solve events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithDefaultStrategy selects the strategy used when a request does not name one.
func WithDefaultStrategy(strategy knapsack.Strategy) HandlerOption {
	return func(h *Handler) {
		h.defaultStrategy = strategy
	}
}

// WithMaxItems caps the number of items the strategy's solver accepts (0
// disables the cap). Strategies without a cap keep the solver default.
func WithMaxItems(strategy knapsack.Strategy, n int) HandlerOption {
	return func(h *Handler) {
		h.maxItems[strategy] = n
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:         store,
		logger:          zap.NewNop(),
		defaultStrategy: knapsack.StrategyPermutation,
		maxItems:        make(map[knapsack.Strategy]int),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	h.solvers = map[knapsack.Strategy]knapsack.Solver{
		knapsack.StrategyPermutation: knapsack.New(h.solverOptions(knapsack.StrategyPermutation)...),
		knapsack.StrategySubset:      knapsack.NewSubsetSolver(h.solverOptions(knapsack.StrategySubset)...),
	}
	return h
}

func (h *Handler) solverOptions(strategy knapsack.Strategy) []knapsack.Option {
	n, ok := h.maxItems[strategy]
	if !ok {
		return nil
	}
	return []knapsack.Option{knapsack.WithMaxItems(n)}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	strategy, solver, err := h.solverFor(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strategy", err.Error(),
			fmt.Sprintf("Use one of %v", knapsack.Strategies()))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Invalid request", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to read request body")
		return
	}

	jsonRequest := isJSON(r.Header.Get("Content-Type"))
	var problem knapsack.Problem
	if jsonRequest {
		problem, err = codec.DecodeProblemJSON(body)
	} else {
		problem, err = codec.ParseProblem(string(body))
	}
	if err != nil {
		writeSolveError(w, err)
		return
	}

	result, err := h.solve(r.Context(), strategy, solver, problem)
	if err != nil {
		writeSolveError(w, err)
		return
	}

	if !jsonRequest {
		if result.entry.ID > 0 {
			w.Header().Set("X-Solve-ID", strconv.FormatInt(result.entry.ID, 10))
		}
		writeText(w, http.StatusOK, result.entry.Solution)
		return
	}

	resp := solveResponse{
		ID:                result.entry.ID,
		SolutionDocument:  codec.NewSolutionDocument(problem, result.solution),
		Strategy:          string(strategy),
		CalculationTimeMs: result.entry.Duration.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListSolutions(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
			return
		}
		limit = min(value, maxListLimit)
	}

	entries, err := h.storage.List(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := solutionsResponse{
		Solutions: lo.Map(entries, func(entry storage.Entry, _ int) solutionSummary {
			return newSolutionSummary(entry)
		}),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSolution(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "id must be a positive integer")
		return
	}

	entry, err := h.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	resp := solutionDetail{
		solutionSummary: newSolutionSummary(entry),
		Problem:         entry.Problem,
		Solution:        entry.Solution,
	}
	writeJSON(w, http.StatusOK, resp)
}

type solveResult struct {
	solution knapsack.Solution
	entry    storage.Entry
}

// solve runs the solver and records the outcome. A failure to record is logged
// but does not fail the solve.
func (h *Handler) solve(ctx context.Context, strategy knapsack.Strategy, solver knapsack.Solver, problem knapsack.Problem) (solveResult, error) {
	start := time.Now()
	solution, err := solver.Solve(problem)
	elapsed := time.Since(start)
	if err != nil {
		h.logger.Info("solve rejected",
			zap.String("strategy", string(strategy)),
			zap.Int("item_count", len(problem.Items)),
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(ctx)),
		)
		return solveResult{}, err
	}

	entry := storage.Entry{
		Strategy:  string(strategy),
		Problem:   codec.FormatProblem(problem),
		Solution:  codec.FormatSolution(solution),
		Value:     solution.Value,
		ItemCount: len(problem.Items),
		Duration:  elapsed,
		CreatedAt: h.clock(),
	}
	recorded, err := h.storage.Record(ctx, entry)
	if err != nil {
		h.logger.Warn("failed to record solve", zap.Error(err))
	} else {
		entry = recorded
	}

	h.logger.Info("problem solved",
		zap.Int64("id", entry.ID),
		zap.String("strategy", string(strategy)),
		zap.Int("item_count", entry.ItemCount),
		zap.Uint64("value", entry.Value),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestIDFromContext(ctx)),
	)
	return solveResult{solution: solution, entry: entry}, nil
}

func (h *Handler) solverFor(raw string) (knapsack.Strategy, knapsack.Solver, error) {
	strategy := h.defaultStrategy
	if raw != "" {
		parsed, err := knapsack.ParseStrategy(raw)
		if err != nil {
			return "", nil, err
		}
		strategy = parsed
	}
	solver, ok := h.solvers[strategy]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", knapsack.ErrUnknownStrategy, string(strategy))
	}
	return strategy, solver, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func newSolutionSummary(entry storage.Entry) solutionSummary {
	return solutionSummary{
		ID:                entry.ID,
		Strategy:          entry.Strategy,
		Value:             entry.Value,
		ItemCount:         entry.ItemCount,
		CalculationTimeMs: entry.Duration.Milliseconds(),
		CreatedAt:         entry.CreatedAt,
	}
}

type solveResponse struct {
	ID int64 `json:"id,omitempty"`
	codec.SolutionDocument
	Strategy          string `json:"strategy"`
	CalculationTimeMs int64  `json:"calculationTimeMs"`
}

type solutionSummary struct {
	ID                int64     `json:"id"`
	Strategy          string    `json:"strategy"`
	Value             uint64    `json:"value"`
	ItemCount         int       `json:"itemCount"`
	CalculationTimeMs int64     `json:"calculationTimeMs"`
	CreatedAt         time.Time `json:"createdAt"`
}

type solutionDetail struct {
	solutionSummary
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

type solutionsResponse struct {
	Solutions []solutionSummary `json:"solutions"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
