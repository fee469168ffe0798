package server

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/internal/metrics"
	"github.com/vorsorge/depotvergleich/internal/output"
	"github.com/vorsorge/depotvergleich/internal/store"
)

// SimulateRequest is the body of POST /api/v1/simulate
type SimulateRequest struct {
	Scenario  domain.ScenarioInput `json:"scenario"`
	TaxParams *domain.TaxParams    `json:"tax_params,omitempty"`
}

// SimulateResponse carries the result with an id for client-side correlation
type SimulateResponse struct {
	CalculationID string                   `json:"calculation_id"`
	Result        *domain.SimulationResult `json:"result"`
}

// ScenarioResponse is a stored scenario together with its engine view
type ScenarioResponse struct {
	Record *store.ScenarioRecord `json:"record"`
	Input  domain.ScenarioInput  `json:"input"`
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx) {
	var req SimulateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.parser.ValidateScenario(&req.Scenario); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	if req.TaxParams != nil {
		if err := config.ValidateTaxParams(req.TaxParams); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := s.engine.Simulate(req.Scenario, req.TaxParams)
	if err != nil {
		writeSimulationError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, SimulateResponse{CalculationID: uuid.NewString(), Result: result})
}

func (s *Server) handleTariffs(ctx *fasthttp.RequestCtx) {
	tariffs := []domain.TariffRecord{}
	if s.catalog != nil {
		tariffs = s.catalog.Tariffs()
	}
	writeJSON(ctx, fasthttp.StatusOK, tariffs)
}

func (s *Server) handleListCustomers(ctx *fasthttp.RequestCtx) {
	customers, err := s.store.ListCustomers(requestContext(ctx))
	if err != nil {
		s.internalError(ctx, "list customers", err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	writeJSON(ctx, fasthttp.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(ctx *fasthttp.RequestCtx) {
	var c domain.Customer
	if err := json.Unmarshal(ctx.PostBody(), &c); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	c.ID = 0
	if err := s.store.CreateCustomer(requestContext(ctx), &c); err != nil {
		if errors.Is(err, domain.ErrCustomerNameRequired) || errors.Is(err, domain.ErrCustomerAgeRequired) {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		s.internalError(ctx, "create customer", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, c)
}

func (s *Server) handleGetCustomer(ctx *fasthttp.RequestCtx, id int64) {
	c, ok := s.loadCustomer(ctx, id)
	if !ok {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, c)
}

func (s *Server) handleGetScenario(ctx *fasthttp.RequestCtx, id int64) {
	c, rec, ok := s.loadScenario(ctx, id)
	if !ok {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, ScenarioResponse{Record: rec, Input: store.ToScenarioInput(c, rec)})
}

func (s *Server) handleUpdateScenario(ctx *fasthttp.RequestCtx, id int64) {
	c, rec, ok := s.loadScenario(ctx, id)
	if !ok {
		return
	}

	var input domain.ScenarioInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if _, err := domain.ParsePayoutMode(string(input.Payout.PayoutMode)); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	// Validate the record as the engine will see it, with name and age from the customer
	next := *rec
	store.ApplyScenarioInput(&next, input)
	merged := store.ToScenarioInput(c, &next)
	if err := s.parser.ValidateScenario(&merged); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	*rec = next
	if err := s.store.UpdateScenario(requestContext(ctx), rec); err != nil {
		s.internalError(ctx, "update scenario", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, ScenarioResponse{Record: rec, Input: store.ToScenarioInput(c, rec)})
}

func (s *Server) handleCustomerSimulation(ctx *fasthttp.RequestCtx, id int64) {
	c, rec, ok := s.loadScenario(ctx, id)
	if !ok {
		return
	}

	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		format = "json"
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		writeError(ctx, fasthttp.StatusBadRequest, output.ErrUnsupportedFormat.Error()+": "+format)
		return
	}

	input := store.ToScenarioInput(c, rec)
	if err := config.ValidateHorizon(&input); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	result, err := s.engine.Simulate(input, nil)
	if err != nil {
		writeSimulationError(ctx, err)
		return
	}

	// json answers with the API envelope instead of a report list
	if f.Name() == "json" {
		writeJSON(ctx, fasthttp.StatusOK, SimulateResponse{CalculationID: uuid.NewString(), Result: result})
		return
	}

	report := domain.Report{
		CustomerName: c.Name,
		ScenarioName: input.Name,
		TariffName:   s.tariffName(input.TariffID()),
		Input:        input,
		Result:       result,
		GeneratedAt:  s.now(),
	}
	body, err := f.Format([]domain.Report{report})
	metrics.IncReportExport(f.Name(), err)
	if err != nil {
		s.internalError(ctx, "render report", err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(output.ContentType(f.Name()))
	if f.Name() == "xlsx" || f.Name() == "pdf" {
		ctx.Response.Header.Set(fasthttp.HeaderContentDisposition, `attachment; filename="depotvergleich.`+output.Extension(f.Name())+`"`)
	}
	ctx.SetBody(body)
}

func (s *Server) loadCustomer(ctx *fasthttp.RequestCtx, id int64) (*domain.Customer, bool) {
	c, err := s.store.GetCustomer(requestContext(ctx), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, "customer not found")
			return nil, false
		}
		s.internalError(ctx, "get customer", err)
		return nil, false
	}
	return c, true
}

func (s *Server) loadScenario(ctx *fasthttp.RequestCtx, id int64) (*domain.Customer, *store.ScenarioRecord, bool) {
	c, ok := s.loadCustomer(ctx, id)
	if !ok {
		return nil, nil, false
	}
	rec, err := store.GetOrCreateScenario(requestContext(ctx), s.store, id, s.defaultTariffID())
	if err != nil {
		s.internalError(ctx, "load scenario", err)
		return nil, nil, false
	}
	return c, rec, true
}

func (s *Server) defaultTariffID() string {
	if s.catalog == nil {
		return ""
	}
	tariffs := s.catalog.Tariffs()
	if len(tariffs) == 0 {
		return ""
	}
	return tariffs[0].ID
}

func (s *Server) tariffName(id string) string {
	if id == "" || s.catalog == nil {
		return ""
	}
	if t, ok := s.catalog.TariffByID(id); ok {
		return t.Name
	}
	return id
}

func (s *Server) internalError(ctx *fasthttp.RequestCtx, op string, err error) {
	s.logger.Errorw(op+" failed", "error", err)
	writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
}

func writeSimulationError(ctx *fasthttp.RequestCtx, err error) {
	if errors.Is(err, calculation.ErrRetirementBeforeCurrentAge) || errors.Is(err, calculation.ErrPayoutEndBeforeRetirement) {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
}

// requestContext adapts the fasthttp request to the store's context parameter
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	return ctx
}
