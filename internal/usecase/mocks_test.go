package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTransactor runs fn inline. DB returns nil and Transaction passes a
// non-nil handle, so fakes can tell the two apart without using either.
type fakeTransactor struct{}

func (t *fakeTransactor) DB(ctx context.Context) *gorm.DB { return nil }

func (t *fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Appointment
	order []uuid.UUID

	createErr error

	// lockedOutsideTx counts FindByIDForUpdate calls made without a transaction
	lockedOutsideTx int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: map[uuid.UUID]entity.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().Add(time.Duration(len(r.order)) * time.Millisecond)
	stored := *a
	stored.Doctor, stored.User = nil, nil
	r.items[a.ID] = stored
	r.order = append(r.order, a.ID)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if db == nil {
		r.mu.Lock()
		r.lockedOutsideTx++
		r.mu.Unlock()
	}
	return r.FindByID(db, id)
}

func (r *fakeAppointmentRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, id := range r.order {
		if a := r.items[id]; a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindBookedByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := entity.TruncateToDay(date)
	var out []entity.Appointment
	for _, id := range r.order {
		a := r.items[id]
		if a.DoctorID == doctorID && a.IsBooked() && entity.TruncateToDay(a.Slot.Date).Equal(day) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateSlot(db *gorm.DB, id uuid.UUID, slot entity.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.items[id]
	a.Slot = slot
	r.items[id] = a
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.items[id]
	a.Status = status
	r.items[id] = a
	return nil
}

type fakeDoctorRepo struct {
	items map[uuid.UUID]entity.Doctor
}

func newFakeDoctorRepo(doctors ...entity.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{items: map[uuid.UUID]entity.Doctor{}}
	for _, d := range doctors {
		r.items[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, d *entity.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.items[d.ID] = *d
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDoctorRepo) FindAll(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	out := make([]entity.Doctor, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(db *gorm.DB, d *entity.Doctor) error {
	r.items[d.ID] = *d
	return nil
}

func (r *fakeDoctorRepo) ReplaceAvailability(db *gorm.DB, doctorID uuid.UUID, slots []entity.DoctorAvailableSlot) error {
	d := r.items[doctorID]
	d.AvailableSlots = slots
	r.items[doctorID] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

type fakeUserRepo struct {
	items map[uuid.UUID]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{items: map[uuid.UUID]entity.User{}}
	for _, u := range users {
		r.items[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range r.items {
		if u.EmailAddress() == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByPhone(db *gorm.DB, phone string) (*entity.User, error) {
	for _, u := range r.items {
		if u.PhoneNumber() == phone {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// fakeLocker queues callers on a mutex, matching the waiting Redis lock.
// With err set it behaves like a lock whose wait ran out.
type fakeLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (l *fakeLocker) WithDoctorDayLock(ctx context.Context, doctorID uuid.UUID, day string, fn func(ctx context.Context) error) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, doctorID.String()+":"+day)
	return fn(ctx)
}

type auditEntry struct {
	action   string
	entityID string
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *fakeAuditService) record(action, entityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID})
}

func (s *fakeAuditService) LogCreate(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	s.record(action, entityID)
	return nil
}

func (s *fakeAuditService) LogUpdate(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	s.record(action, entityID)
	return nil
}

func (s *fakeAuditService) LogDelete(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	s.record(action, entityID)
	return nil
}

type sentMessage struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu     sync.Mutex
	sms    []sentMessage
	emails []sentMessage
	err    error
}

func (n *fakeNotifier) SendSMS(ctx context.Context, to, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, sentMessage{to: to, body: body})
	return n.err
}

func (n *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, sentMessage{to: to, subject: subject, body: body})
	return n.err
}

type fakeTokenStore struct {
	tokens map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]bool{}}
}

func (s *fakeTokenStore) key(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (s *fakeTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.tokens[s.key(tokenType, userID, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	return s.tokens[s.key(tokenType, userID, tokenID)], nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	delete(s.tokens, s.key(tokenType, userID, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for k := range s.tokens {
		delete(s.tokens, k)
	}
	return nil
}

type fakeOTPStore struct {
	codes map[string]string
}

func (s *fakeOTPStore) Issue(ctx context.Context, phone string) (string, error) {
	if s.codes == nil {
		s.codes = map[string]string{}
	}
	s.codes[phone] = "123456"
	return "123456", nil
}

func (s *fakeOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	stored, ok := s.codes[phone]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, phone)
	return true, nil
}
