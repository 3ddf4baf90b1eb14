package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID       map[string]*domain.User
	byUsername map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	clone := *u
	r.byID[u.ID] = &clone
	r.byUsername[u.Username] = &clone
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byUsername[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	if u.ID == "" {
		u.ID = "id-" + u.Username
	}
	return r.add(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) FindByManagerID(_ context.Context, managerID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if u.ManagerID == managerID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRoles(_ context.Context, userID string, roles []domain.Role) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = roles
	return nil
}

func (r *stubUserRepo) UpdateManager(_ context.Context, userID string, managerID string) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ManagerID = managerID
	return nil
}

type stubInvestmentRepo struct {
	byID map[string]*domain.InvestmentRequest

	// staleRead, when set, is returned by FindByID instead of the stored
	// record. Lets tests model a reader racing a concurrent writer.
	staleRead *domain.InvestmentRequest
}

func newStubInvestmentRepo() *stubInvestmentRepo {
	return &stubInvestmentRepo{byID: make(map[string]*domain.InvestmentRequest)}
}

func (r *stubInvestmentRepo) Create(_ context.Context, req *domain.InvestmentRequest) error {
	clone := *req
	r.byID[req.ID] = &clone
	return nil
}

func (r *stubInvestmentRepo) FindByID(_ context.Context, id string) (*domain.InvestmentRequest, error) {
	if r.staleRead != nil && r.staleRead.ID == id {
		clone := *r.staleRead
		return &clone, nil
	}
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubInvestmentRepo) FindByOwnerID(_ context.Context, ownerID string) ([]*domain.InvestmentRequest, error) {
	var out []*domain.InvestmentRequest
	for _, req := range r.byID {
		if req.OwnerID == ownerID {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubInvestmentRepo) FindByOwnerIDs(_ context.Context, ownerIDs []string) ([]*domain.InvestmentRequest, error) {
	ids := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		ids[id] = struct{}{}
	}
	var out []*domain.InvestmentRequest
	for _, req := range r.byID {
		if _, ok := ids[req.OwnerID]; ok {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubInvestmentRepo) FindByStatus(_ context.Context, status domain.Status) ([]*domain.InvestmentRequest, error) {
	var out []*domain.InvestmentRequest
	for _, req := range r.byID {
		if req.Status == status {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubInvestmentRepo) FindAll(_ context.Context) ([]*domain.InvestmentRequest, error) {
	var out []*domain.InvestmentRequest
	for _, req := range r.byID {
		clone := *req
		out = append(out, &clone)
	}
	return out, nil
}

// UpdateStatus mirrors the Mongo compare-and-set: the stored status must
// still match t.From or the call fails with ErrConflict.
func (r *stubInvestmentRepo) UpdateStatus(_ context.Context, id string, t ports.StatusTransition) (*domain.InvestmentRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Status != t.From {
		return nil, domain.ErrConflict
	}
	req.Status = t.To
	req.ModeratorID = t.ModeratorID
	req.ModeratorName = t.ModeratorName
	moderatedAt := t.ModeratedAt
	req.ModeratedAt = &moderatedAt
	clone := *req
	return &clone, nil
}

type stubIdemStore struct {
	entries map[string]string
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{entries: make(map[string]string)}
}

func (s *stubIdemStore) Lookup(_ context.Context, actorID, key string) (string, error) {
	return s.entries[actorID+":"+key], nil
}

func (s *stubIdemStore) Remember(_ context.Context, actorID, key, requestID string) error {
	s.entries[actorID+":"+key] = requestID
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	users    *stubUserRepo
	requests *stubInvestmentRepo
	idem     *stubIdemStore
	svc      *InvestmentService
}

// newFixture seeds the standard hierarchy:
//
//	admin           (ADMIN)
//	manager         (MANAGER)  ← employee
//	other_manager   (MANAGER)  ← other_employee
//	employee        (REGULAR, manager=manager)
//	other_employee  (REGULAR, manager=other_manager)
func newFixture() *fixture {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u-admin", Username: "admin", Roles: []domain.Role{domain.RoleAdmin}})
	users.add(&domain.User{ID: "u-manager", Username: "manager", Roles: []domain.Role{domain.RoleManager}})
	users.add(&domain.User{ID: "u-manager2", Username: "other_manager", Roles: []domain.Role{domain.RoleManager}})
	users.add(&domain.User{ID: "u-employee", Username: "employee", ManagerID: "u-manager", Roles: []domain.Role{domain.RoleRegular}})
	users.add(&domain.User{ID: "u-employee2", Username: "other_employee", ManagerID: "u-manager2", Roles: []domain.Role{domain.RoleRegular}})

	requests := newStubInvestmentRepo()
	idem := newStubIdemStore()
	return &fixture{
		users:    users,
		requests: requests,
		idem:     idem,
		svc:      NewInvestmentService(requests, users, idem, discardLogger),
	}
}

func (f *fixture) submit(t *testing.T, actor string) *domain.InvestmentRequest {
	t.Helper()
	result, err := f.svc.Submit(context.Background(), actor, ports.SubmitInput{
		Title:       "New laptop fleet",
		Description: "Replace aging hardware",
		Amount:      100,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result.Request
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	f := newFixture()

	req := f.submit(t, "employee")

	if req.Status != domain.StatusPending {
		t.Errorf("expected status PENDING, got %s", req.Status)
	}
	if req.OwnerID != "u-employee" || req.OwnerUsername != "employee" {
		t.Errorf("owner not recorded: %+v", req)
	}
	if req.ModeratorID != "" || req.ModeratedAt != nil {
		t.Error("moderator fields must be unset while PENDING")
	}
	if req.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if req.ID == "" {
		t.Error("request must receive an id")
	}
}

func TestSubmit_OpenToEveryRole(t *testing.T) {
	f := newFixture()

	for _, actor := range []string{"employee", "manager", "admin"} {
		if _, err := f.svc.Submit(context.Background(), actor, ports.SubmitInput{Title: "t", Description: "d", Amount: 1}); err != nil {
			t.Errorf("submit as %s: unexpected error %v", actor, err)
		}
	}
}

func TestSubmit_UnknownActor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), "ghost", ports.SubmitInput{Title: "t", Description: "d", Amount: 1})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmit_IdempotencyReplay(t *testing.T) {
	f := newFixture()
	input := ports.SubmitInput{Title: "t", Description: "d", Amount: 1, IdempotencyKey: "key-abc"}

	first, err := f.svc.Submit(context.Background(), "employee", input)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := f.svc.Submit(context.Background(), "employee", input)
	if err != nil {
		t.Fatalf("replay submit: %v", err)
	}

	if !second.AlreadyExisted {
		t.Error("replay must set AlreadyExisted")
	}
	if second.Request.ID != first.Request.ID {
		t.Errorf("replay must return the original request: got %s, want %s", second.Request.ID, first.Request.ID)
	}
	if len(f.requests.byID) != 1 {
		t.Errorf("expected 1 stored request, got %d", len(f.requests.byID))
	}
}

func TestSubmit_IdempotencyKeyScopedToActor(t *testing.T) {
	f := newFixture()
	input := ports.SubmitInput{Title: "t", Description: "d", Amount: 1, IdempotencyKey: "shared-key"}

	_, _ = f.svc.Submit(context.Background(), "employee", input)
	result, err := f.svc.Submit(context.Background(), "other_employee", input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.AlreadyExisted {
		t.Error("a different actor's key must not replay")
	}
	if len(f.requests.byID) != 2 {
		t.Errorf("expected 2 stored requests, got %d", len(f.requests.byID))
	}
}

// ---------------------------------------------------------------------------
// Approve / Reject guards
// ---------------------------------------------------------------------------

func TestApprove_ManagerOnOwnSubordinatePending(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	updated, err := f.svc.Approve(context.Background(), "manager", req.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if updated.Status != domain.StatusApproved {
		t.Errorf("expected APPROVED, got %s", updated.Status)
	}
	if updated.ModeratorID != "u-manager" || updated.ModeratorName != "manager" {
		t.Errorf("moderator not recorded: %+v", updated)
	}
	if updated.ModeratedAt == nil || updated.ModeratedAt.IsZero() {
		t.Error("ModeratedAt must be set on decision")
	}
}

func TestReject_ManagerOnOwnSubordinatePending(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	updated, err := f.svc.Reject(context.Background(), "manager", req.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != domain.StatusRejected {
		t.Errorf("expected REJECTED, got %s", updated.Status)
	}
}

func TestApprove_AdminCannotDecidePendingDirectly(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	if _, err := f.svc.Approve(context.Background(), "admin", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin on pending: expected ErrForbidden, got %v", err)
	}
}

func TestApprove_ForeignManagerForbidden(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "other_employee")

	if _, err := f.svc.Approve(context.Background(), "manager", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign manager: expected ErrForbidden, got %v", err)
	}
}

func TestApprove_RegularForbidden(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	if _, err := f.svc.Approve(context.Background(), "other_employee", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("regular actor: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Reject(context.Background(), "other_employee", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("regular actor: expected ErrForbidden, got %v", err)
	}
}

func TestApprove_TerminalStatusForbidden(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	if _, err := f.svc.Approve(context.Background(), "manager", req.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Nobody may act on a decided request.
	if _, err := f.svc.Approve(context.Background(), "manager", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("manager on approved: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Reject(context.Background(), "admin", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin on approved: expected ErrForbidden, got %v", err)
	}
}

func TestApprove_UnknownRequest(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Approve(context.Background(), "manager", "nope"); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Escalation
// ---------------------------------------------------------------------------

func TestEscalate_DirectManagerOnly(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	if _, err := f.svc.Escalate(context.Background(), "other_manager", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign manager escalate: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Escalate(context.Background(), "admin", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("admin escalate: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Escalate(context.Background(), "other_employee", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("regular escalate: expected ErrForbidden, got %v", err)
	}

	updated, err := f.svc.Escalate(context.Background(), "manager", req.ID)
	if err != nil {
		t.Fatalf("escalate: %v", err)
	}
	if updated.Status != domain.StatusEscalated {
		t.Errorf("expected ESCALATED, got %s", updated.Status)
	}
	if updated.ModeratorName != "manager" {
		t.Error("escalation must record the escalating manager as moderator")
	}
	if updated.ModeratedAt == nil {
		t.Error("escalation must set ModeratedAt")
	}
}

func TestEscalate_SingleShot(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	if _, err := f.svc.Escalate(context.Background(), "manager", req.ID); err != nil {
		t.Fatalf("first escalate: %v", err)
	}
	if _, err := f.svc.Escalate(context.Background(), "manager", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("second escalate: expected ErrForbidden, got %v", err)
	}
}

func TestEscalationScenario_FullLifecycle(t *testing.T) {
	f := newFixture()

	// Employee submits, manager escalates, admin approves.
	req := f.submit(t, "employee")

	escalated, err := f.svc.Escalate(context.Background(), "manager", req.ID)
	if err != nil {
		t.Fatalf("escalate: %v", err)
	}
	if escalated.Status != domain.StatusEscalated || escalated.ModeratorName != "manager" {
		t.Fatalf("escalation state wrong: %+v", escalated)
	}

	approved, err := f.svc.Approve(context.Background(), "admin", req.ID)
	if err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Errorf("expected APPROVED, got %s", approved.Status)
	}
	if approved.ModeratorName != "admin" {
		t.Errorf("moderator must be the deciding admin, got %s", approved.ModeratorName)
	}
	if approved.ModeratedAt == nil {
		t.Error("ModeratedAt must be set")
	}

	// Terminal: a second approve fails.
	if _, err := f.svc.Approve(context.Background(), "admin", req.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("second admin approve: expected ErrForbidden, got %v", err)
	}
}

func TestTransition_ConcurrentLoserGetsConflict(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")

	// Pin the manager's read to the PENDING snapshot, then let a racing
	// escalation land first. The guard passes on the stale read but the
	// compare-and-set sees a different stored status.
	stale := *req
	f.requests.staleRead = &stale
	f.requests.byID[req.ID].Status = domain.StatusEscalated

	if _, err := f.svc.Approve(context.Background(), "manager", req.ID); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict for lost race, got %v", err)
	}
	if f.requests.byID[req.ID].Status != domain.StatusEscalated {
		t.Error("stored status must be untouched by the losing writer")
	}
}

// ---------------------------------------------------------------------------
// List views
// ---------------------------------------------------------------------------

func TestListOwn_ReturnsExactlyOwnRequests(t *testing.T) {
	f := newFixture()
	mine := f.submit(t, "employee")
	f.submit(t, "other_employee")

	requests, err := f.svc.ListOwn(context.Background(), "employee")
	if err != nil {
		t.Fatalf("listOwn: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != mine.ID {
		t.Errorf("expected exactly own request, got %d", len(requests))
	}
}

func TestListManaged_ReturnsSubordinateRequestsAnyStatus(t *testing.T) {
	f := newFixture()
	pending := f.submit(t, "employee")
	decided := f.submit(t, "employee")
	f.submit(t, "other_employee")

	if _, err := f.svc.Approve(context.Background(), "manager", decided.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	requests, err := f.svc.ListManaged(context.Background(), "manager")
	if err != nil {
		t.Fatalf("listManaged: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 managed requests, got %d", len(requests))
	}
	seen := map[string]bool{}
	for _, r := range requests {
		seen[r.ID] = true
	}
	if !seen[pending.ID] || !seen[decided.ID] {
		t.Error("managed view must include subordinate requests regardless of status")
	}
}

func TestListManaged_ForbiddenForRegular(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.ListManaged(context.Background(), "employee"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestListManaged_ManagerWithoutSubordinates(t *testing.T) {
	f := newFixture()
	f.users.add(&domain.User{ID: "u-lonely", Username: "lonely", Roles: []domain.Role{domain.RoleManager}})

	requests, err := f.svc.ListManaged(context.Background(), "lonely")
	if err != nil {
		t.Fatalf("listManaged: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("expected empty result, got %d", len(requests))
	}
}

func TestListEscalated_AdminOnly(t *testing.T) {
	f := newFixture()
	req := f.submit(t, "employee")
	f.submit(t, "employee") // stays pending

	if _, err := f.svc.Escalate(context.Background(), "manager", req.ID); err != nil {
		t.Fatalf("escalate: %v", err)
	}

	for _, actor := range []string{"employee", "manager"} {
		if _, err := f.svc.ListEscalated(context.Background(), actor); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("listEscalated as %s: expected ErrForbidden, got %v", actor, err)
		}
	}

	requests, err := f.svc.ListEscalated(context.Background(), "admin")
	if err != nil {
		t.Fatalf("listEscalated: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != req.ID {
		t.Errorf("expected only the escalated request, got %d", len(requests))
	}
}

func TestListAll_AdminOnly(t *testing.T) {
	f := newFixture()
	f.submit(t, "employee")
	f.submit(t, "other_employee")

	for _, actor := range []string{"employee", "manager"} {
		if _, err := f.svc.ListAll(context.Background(), actor); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("listAll as %s: expected ErrForbidden, got %v", actor, err)
		}
	}

	requests, err := f.svc.ListAll(context.Background(), "admin")
	if err != nil {
		t.Fatalf("listAll: %v", err)
	}
	if len(requests) != 2 {
		t.Errorf("expected 2 requests, got %d", len(requests))
	}
}
