package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/mail"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
)

type fakeDivisionRepo struct {
	mu        sync.Mutex
	divisions map[string]domain.Division
}

func newFakeDivisionRepo(divisions ...domain.Division) *fakeDivisionRepo {
	repo := &fakeDivisionRepo{divisions: map[string]domain.Division{}}
	for _, d := range divisions {
		repo.divisions[d.ID] = d
	}
	return repo
}

func (r *fakeDivisionRepo) Create(ctx context.Context, division *domain.Division) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if division.ID == "" {
		division.ID = fmt.Sprintf("div-%d", len(r.divisions)+1)
	}
	r.divisions[division.ID] = *division
	return nil
}

func (r *fakeDivisionRepo) Update(ctx context.Context, division *domain.Division) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.divisions[division.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.divisions[division.ID] = *division
	return nil
}

func (r *fakeDivisionRepo) GetByID(ctx context.Context, id string) (*domain.Division, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	division, ok := r.divisions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &division, nil
}

func (r *fakeDivisionRepo) ListActive(ctx context.Context) ([]domain.Division, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Division
	for _, d := range r.divisions {
		if d.IsActive {
			result = append(result, d)
		}
	}
	return result, nil
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: map[string]int64{}}
}

func (r *fakeSequenceRepo) Next(ctx context.Context, divisionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[divisionID]++
	return r.counters[divisionID], nil
}

type fakeSettingRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingRepo(values map[string]string) *fakeSettingRepo {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeSettingRepo{values: values}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key, fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if val, ok := r.values[key]; ok {
		return val
	}
	return fallback
}

func (r *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeSettingRepo) List(ctx context.Context) ([]domain.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Setting
	for k, v := range r.values {
		result = append(result, domain.Setting{Key: k, Value: v})
	}
	return result, nil
}

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts []domain.Contract
}

func newFakeContractRepo(contracts ...domain.Contract) *fakeContractRepo {
	return &fakeContractRepo{contracts: contracts}
}

func (r *fakeContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contract.ID == "" {
		contract.ID = fmt.Sprintf("contract-%d", len(r.contracts)+1)
	}
	r.contracts = append(r.contracts, *contract)
	return nil
}

func (r *fakeContractRepo) Update(ctx context.Context, contract *domain.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contracts {
		if r.contracts[i].ID == contract.ID {
			r.contracts[i] = *contract
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeContractRepo) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contracts {
		if r.contracts[i].ID == id {
			contract := r.contracts[i]
			return &contract, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) GetByTicketNumber(ctx context.Context, ticketNumber string) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.contracts {
		if r.contracts[i].TicketNumber != nil && *r.contracts[i].TicketNumber == ticketNumber {
			contract := r.contracts[i]
			return &contract, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) ListWithFilter(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Contract{}, r.contracts...), nil
}

func (r *fakeContractRepo) ListExpiring(ctx context.Context) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Contract
	for _, c := range r.contracts {
		if c.EndDate != nil && c.Status != domain.ContractStatusTerminated {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeReminderLogRepo struct {
	mu   sync.Mutex
	logs []domain.ReminderLog
}

func (r *fakeReminderLogRepo) Create(ctx context.Context, log *domain.ReminderLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = fmt.Sprintf("log-%d", len(r.logs)+1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeReminderLogRepo) ListByContract(ctx context.Context, contractID string, limit, offset int) ([]domain.ReminderLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ReminderLog
	for _, log := range r.logs {
		if log.ContractID == contractID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (r *fakeReminderLogRepo) byStatus(status domain.ReminderStatus) []domain.ReminderLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ReminderLog
	for _, log := range r.logs {
		if log.Status == status {
			result = append(result, log)
		}
	}
	return result
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListActiveByDivision(ctx context.Context, divisionID string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Active && user.DivisionID != nil && *user.DivisionID == divisionID {
			result = append(result, user)
		}
	}
	return result, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = fmt.Sprintf("notif-%d", len(r.notifications)+1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].UserID == userID && r.notifications[i].ReadAt == nil {
			now := nowStamp()
			r.notifications[i].ReadAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && r.notifications[i].ReadAt == nil {
			now := nowStamp()
			r.notifications[i].ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

// captureMailer records enqueued messages; failFor makes Enqueue fail for
// messages whose subject contains the given substring.
type captureMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	failFor  string
}

func (m *captureMailer) Enqueue(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor != "" && contains(msg.Subject, m.failFor) {
		return fmt.Errorf("smtp unavailable")
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *captureMailer) sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message{}, m.messages...)
}

func nowStamp() time.Time {
	return time.Now().UTC()
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
