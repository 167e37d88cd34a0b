package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/repositories"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/payment"
)

type memScholarships struct {
	mu    sync.Mutex
	items map[string]*models.Scholarship
	apps  *memApplications
}

func newMemScholarships(list ...*models.Scholarship) *memScholarships {
	m := &memScholarships{items: map[string]*models.Scholarship{}}
	for _, s := range list {
		m.items[s.ID] = s
	}
	return m
}

func (m *memScholarships) Create(_ context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memScholarships) GetByID(_ context.Context, id string) (*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, apperrors.ErrScholarshipNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memScholarships) all() []*models.Scholarship {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Scholarship, 0, len(m.items))
	for _, s := range m.items {
		cp := *s
		out = append(out, &cp)
	}
	return out
}

func (m *memScholarships) List(_ context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error) {
	var out []*models.Scholarship
	for _, s := range m.all() {
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.ScholarshipName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationFees < out[j].ApplicationFees })
	return out, nil
}

func (m *memScholarships) Top(ctx context.Context, _ models.TopSort, limit int) ([]*models.Scholarship, error) {
	out, _ := m.List(ctx, models.ScholarshipFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memScholarships) ListAll(ctx context.Context) ([]*models.Scholarship, error) {
	return m.List(ctx, models.ScholarshipFilter{})
}

func (m *memScholarships) Facets(context.Context) (*models.ScholarshipFacets, error) {
	f := &models.ScholarshipFacets{}
	for _, s := range m.all() {
		f.Countries = append(f.Countries, s.UniversityCountry)
	}
	sort.Strings(f.Countries)
	return f, nil
}

func (m *memScholarships) Update(_ context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[s.ID]; !ok {
		return apperrors.ErrScholarshipNotFound
	}
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memScholarships) UpdateImage(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return apperrors.ErrScholarshipNotFound
	}
	s.UniversityImage = url
	return nil
}

func (m *memScholarships) Delete(_ context.Context, id string) error {
	if m.apps != nil && m.apps.countFor(id) > 0 {
		return apperrors.ErrScholarshipHasApplications
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperrors.ErrScholarshipNotFound
	}
	delete(m.items, id)
	return nil
}

// memApplications enforces the (scholarship, email) uniqueness like the
// database index does.
type memApplications struct {
	mu    sync.Mutex
	items map[string]*models.Application
	// beforeCreate runs inside Create to simulate a concurrent insert
	beforeCreate func(a *models.Application)
}

func newMemApplications() *memApplications {
	return &memApplications{items: map[string]*models.Application{}}
}

func (m *memApplications) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *memApplications) countFor(scholarshipID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.items {
		if a.ScholarshipID == scholarshipID {
			n++
		}
	}
	return n
}

func (m *memApplications) insert(a *models.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.items[a.ID] = &cp
}

func (m *memApplications) Create(_ context.Context, a *models.Application) error {
	if hook := m.beforeCreate; hook != nil {
		m.beforeCreate = nil
		hook(a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ScholarshipID == a.ScholarshipID && existing.UserEmail == a.UserEmail {
			return apperrors.ErrApplicationAlreadyExists
		}
	}
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApplications) FindByScholarshipAndEmail(_ context.Context, scholarshipID, email string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ScholarshipID == scholarshipID && a.UserEmail == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (m *memApplications) ListByEmail(_ context.Context, email string) ([]*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Application
	for _, a := range m.items {
		if a.UserEmail == email {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memApplications) List(_ context.Context, filter models.ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Application
	for _, a := range m.items {
		if filter.Status == "" || a.ApplicationStatus == filter.Status {
			cp := *a
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if int(offset) >= len(out) {
		return []*models.Application{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memApplications) MarkPaid(_ context.Context, scholarshipID, email string, upd repositories.PaymentUpdate) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.items {
		if a.ScholarshipID == scholarshipID && a.UserEmail == email {
			a.PaymentStatus = models.PaymentStatusPaid
			if upd.RefreshApplicationDate {
				a.ApplicationDate = time.Now()
			}
			if upd.TransactionID != nil {
				a.TransactionID = upd.TransactionID
			}
			if upd.PaymentSessionID != nil {
				a.PaymentSessionID = upd.PaymentSessionID
			}
			n++
		}
	}
	return models.UpdateResult{MatchedCount: n, ModifiedCount: n}, nil
}

func (m *memApplications) UpdateStatus(_ context.Context, id string, status, expected models.ApplicationStatus) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok || (expected != "" && a.ApplicationStatus != expected) {
		return models.UpdateResult{}, nil
	}
	a.ApplicationStatus = status
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memApplications) UpdateFeedback(_ context.Context, id, feedback string) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return models.UpdateResult{}, nil
	}
	a.Feedback = feedback
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memApplications) UpdateDetails(_ context.Context, id, email string, d models.ApplicantDetails) (models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok || a.UserEmail != email || a.ApplicationStatus != models.ApplicationStatusPending {
		return models.UpdateResult{}, nil
	}
	if d.ContactNumber != nil {
		a.ContactNumber = d.ContactNumber
	}
	if d.Address != nil {
		a.Address = d.Address
	}
	if d.AdditionalInfo != nil {
		a.AdditionalInfo = d.AdditionalInfo
	}
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memApplications) DeletePending(_ context.Context, id, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok || a.UserEmail != email || a.ApplicationStatus != models.ApplicationStatusPending {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: map[string]*models.User{}}
}

func (m *memUsers) Upsert(_ context.Context, email, name, photoURL string) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, u := range m.items {
		if u.Email == email {
			u.LastLoggedIn = &now
			if name != "" {
				u.Name = name
			}
			if photoURL != "" {
				u.PhotoURL = photoURL
			}
			cp := *u
			return &cp, false, nil
		}
	}
	u := &models.User{ID: uuid.NewString(), Email: email, Name: name, PhotoURL: photoURL,
		Role: models.RoleStudent, CreatedAt: now, LastLoggedIn: &now}
	m.items[u.ID] = u
	cp := *u
	return &cp, true, nil
}

func (m *memUsers) EnsureRole(_ context.Context, email string, role models.RoleType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	u := &models.User{ID: uuid.NewString(), Email: email, Role: role, CreatedAt: time.Now()}
	m.items[u.ID] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) List(_ context.Context, role models.RoleType, _ uint64, _ int) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.items {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) UpdateRole(_ context.Context, id string, role models.RoleType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.items, id)
	return nil
}

type memReviews struct {
	mu    sync.Mutex
	items map[string]*models.Review
}

func newMemReviews() *memReviews {
	return &memReviews{items: map[string]*models.Review{}}
}

func (m *memReviews) Create(_ context.Context, rv *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rv
	m.items[rv.ID] = &cp
	return nil
}

func (m *memReviews) GetByID(_ context.Context, id string) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.items[id]
	if !ok {
		return nil, apperrors.ErrReviewNotFound
	}
	cp := *rv
	return &cp, nil
}

func (m *memReviews) filter(keep func(*models.Review) bool) []*models.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Review
	for _, rv := range m.items {
		if keep(rv) {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out
}

func (m *memReviews) ListByScholarship(_ context.Context, id string) ([]*models.Review, error) {
	return m.filter(func(rv *models.Review) bool { return rv.ScholarshipID == id }), nil
}

func (m *memReviews) ListByEmail(_ context.Context, email string) ([]*models.Review, error) {
	return m.filter(func(rv *models.Review) bool { return rv.UserEmail == email }), nil
}

func (m *memReviews) ListAll(context.Context) ([]*models.Review, error) {
	return m.filter(func(*models.Review) bool { return true }), nil
}

func (m *memReviews) Update(_ context.Context, rv *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[rv.ID]; !ok {
		return apperrors.ErrReviewNotFound
	}
	cp := *rv
	m.items[rv.ID] = &cp
	return nil
}

func (m *memReviews) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperrors.ErrReviewNotFound
	}
	delete(m.items, id)
	return nil
}

// fakeGateway records checkout requests and serves canned sessions
type fakeGateway struct {
	mu        sync.Mutex
	requests  []payment.CheckoutRequest
	sessions  map[string]*payment.SessionRecord
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*payment.SessionRecord{}}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.requests = append(g.requests, req)
	id := "cs_test_" + uuid.NewString()[:8]
	g.sessions[id] = &payment.SessionRecord{
		ID:            id,
		PaymentStatus: payment.StatusUnpaid,
		AmountTotal:   req.AmountMinor,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	}
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.example.com/" + id}, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, id string) (*payment.SessionRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	cp := *rec
	return &cp, nil
}

// pay simulates the customer completing the hosted checkout
func (g *fakeGateway) pay(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := g.sessions[id]
	rec.PaymentStatus = payment.StatusPaid
	rec.PaymentIntentID = "pi_" + id
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, event string, _ *models.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}
