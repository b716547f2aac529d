package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hospicore/biomedtrack/internal/types"
)

// MemStore is an in-memory Store. It backs the test suites and local
// development without a Postgres instance. Same semantics as the
// Postgres gateway, including newest-first ordering and idempotent
// read-marking.
type MemStore struct {
	mu sync.RWMutex

	nextID        int64
	users         map[int64]*User
	equipment     map[int64]*Equipment
	readings      []SensorReading
	reports       map[int64]*Report
	notifications map[int64]*Notification
	delegations   map[int64]*Delegation
	maintenance   map[int64]*MaintenanceRecord
	tracking      map[int64]*TrackingEntry
	refreshTokens map[string]*refreshTokenRow
}

type refreshTokenRow struct {
	userID    int64
	expiresAt time.Time
	revokedAt *time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:         make(map[int64]*User),
		equipment:     make(map[int64]*Equipment),
		reports:       make(map[int64]*Report),
		notifications: make(map[int64]*Notification),
		delegations:   make(map[int64]*Delegation),
		maintenance:   make(map[int64]*MaintenanceRecord),
		tracking:      make(map[int64]*TrackingEntry),
		refreshTokens: make(map[string]*refreshTokenRow),
	}
}

func (m *MemStore) nextSerial() int64 {
	m.nextID++
	return m.nextID
}

// users

func (m *MemStore) CreateUser(_ context.Context, u User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Nickname == u.Nickname {
			return nil, types.NewValidationError("nickname", "ya existe un usuario con ese nickname")
		}
	}

	u.ID = m.nextSerial()
	u.CreatedAt = time.Now()
	stored := u
	m.users[u.ID] = &stored

	copied := stored
	return &copied, nil
}

func (m *MemStore) GetUserByNickname(_ context.Context, nickname string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Nickname == nickname {
			copied := *u
			return &copied, nil
		}
	}
	return nil, types.NewNotFoundError("usuario", nickname)
}

func (m *MemStore) GetUserByID(_ context.Context, userID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, types.NewNotFoundError("usuario", userID)
	}
	copied := *u
	return &copied, nil
}

func (m *MemStore) ListTechnicians(_ context.Context) ([]TechnicianSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	techs := make([]TechnicianSummary, 0)
	for _, u := range m.users {
		if u.Role == string(types.RoleTecnico) {
			techs = append(techs, TechnicianSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName})
		}
	}
	sort.Slice(techs, func(i, j int) bool {
		if techs[i].LastName != techs[j].LastName {
			return techs[i].LastName < techs[j].LastName
		}
		if techs[i].FirstName != techs[j].FirstName {
			return techs[i].FirstName < techs[j].FirstName
		}
		return techs[i].ID < techs[j].ID
	})
	return techs, nil
}

func (m *MemStore) UpdateLastLogin(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[userID]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (m *MemStore) IncrementFailedLoginAttempts(_ context.Context, userID int64, maxAttempts int, lockFor time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockFor)
		u.LockedUntil = &until
	}
	return nil
}

func (m *MemStore) ResetFailedLoginAttempts(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[userID]; ok {
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	}
	return nil
}

func (m *MemStore) DeleteUser(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return types.NewNotFoundError("usuario", userID)
	}
	delete(m.users, userID)

	// cascade like the schema does
	for id, r := range m.reports {
		if r.UserID == userID {
			delete(m.reports, id)
		}
	}
	for id, n := range m.notifications {
		if n.TargetUserID != nil && *n.TargetUserID == userID {
			delete(m.notifications, id)
		}
	}
	for hash, rt := range m.refreshTokens {
		if rt.userID == userID {
			delete(m.refreshTokens, hash)
		}
	}
	return nil
}

func (m *MemStore) StoreRefreshToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshTokens[tokenHash] = &refreshTokenRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *MemStore) GetRefreshToken(_ context.Context, tokenHash string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rt, ok := m.refreshTokens[tokenHash]
	if !ok {
		return 0, types.NewAuthError("refresh token desconocido")
	}
	if rt.revokedAt != nil {
		return 0, types.NewAuthError("refresh token revocado")
	}
	if time.Now().After(rt.expiresAt) {
		return 0, types.NewAuthError("refresh token expirado")
	}
	return rt.userID, nil
}

func (m *MemStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rt, ok := m.refreshTokens[tokenHash]; ok {
		now := time.Now()
		rt.revokedAt = &now
	}
	return nil
}

func (m *MemStore) RevokeAllUserRefreshTokens(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, rt := range m.refreshTokens {
		if rt.userID == userID && rt.revokedAt == nil {
			rt.revokedAt = &now
		}
	}
	return nil
}

func (m *MemStore) LogAuthEvent(context.Context, string, *int64, string, string, bool, string) error {
	return nil
}

// equipment

func (m *MemStore) SaveOrUpdateEquipment(_ context.Context, e Equipment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.equipment {
		if existing.Serial == e.Serial {
			e.ID = existing.ID
			e.CreatedAt = existing.CreatedAt
			e.UpdatedAt = time.Now()
			stored := e
			m.equipment[e.ID] = &stored
			return e.ID, nil
		}
	}

	e.ID = m.nextSerial()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	stored := e
	m.equipment[e.ID] = &stored
	return e.ID, nil
}

func (m *MemStore) GetEquipment(_ context.Context, id int64) (*Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.equipment[id]
	if !ok {
		return nil, types.NewNotFoundError("equipo", id)
	}
	copied := *e
	return &copied, nil
}

func (m *MemStore) FindEquipmentIDByName(_ context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best int64
	for _, e := range m.equipment {
		if e.Name == name && (best == 0 || e.ID < best) {
			best = e.ID
		}
	}
	return best, nil
}

func (m *MemStore) ListEquipment(_ context.Context) ([]Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	equipment := make([]Equipment, 0, len(m.equipment))
	for _, e := range m.equipment {
		equipment = append(equipment, *e)
	}
	sort.Slice(equipment, func(i, j int) bool {
		if equipment[i].Name != equipment[j].Name {
			return equipment[i].Name < equipment[j].Name
		}
		return equipment[i].ID < equipment[j].ID
	})
	return equipment, nil
}

// sensors

func (m *MemStore) InsertSensorReading(_ context.Context, r SensorReading) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextSerial()
	r.CreatedAt = time.Now()
	m.readings = append(m.readings, r)
	return r.ID, nil
}

func (m *MemStore) LatestSensorReadings(_ context.Context, limit int) ([]SensorReading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.readings)
	if limit > n {
		limit = n
	}
	readings := make([]SensorReading, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		readings = append(readings, m.readings[i])
	}
	return readings, nil
}

func (m *MemStore) SensorReadingsAfter(_ context.Context, afterID int64) ([]SensorReading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	readings := make([]SensorReading, 0)
	for _, r := range m.readings {
		if r.ID > afterID {
			readings = append(readings, r)
		}
	}
	return readings, nil
}

// reports

func (m *MemStore) InsertReport(_ context.Context, r Report) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextSerial()
	r.CreatedAt = time.Now()
	r.HasPhoto = len(r.Photo) > 0
	stored := r
	m.reports[r.ID] = &stored
	return r.ID, nil
}

func (m *MemStore) GetReport(_ context.Context, id int64) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, types.NewNotFoundError("reporte", id)
	}
	copied := *r
	return &copied, nil
}

func (m *MemStore) ListReports(_ context.Context) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]Report, 0, len(m.reports))
	for _, r := range m.reports {
		copied := *r
		copied.Photo = nil
		reports = append(reports, copied)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID > reports[j].ID })
	return reports, nil
}

// notifications

func (m *MemStore) InsertNotification(_ context.Context, n Notification) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = m.nextSerial()
	n.CreatedAt = time.Now()
	stored := n
	m.notifications[n.ID] = &stored
	return n.ID, nil
}

func (m *MemStore) GetNotification(_ context.Context, id int64) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, types.NewNotFoundError("notificacion", id)
	}
	copied := *n
	return &copied, nil
}

func (m *MemStore) ListNotificationsForRole(_ context.Context, role string) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collectNotifications(func(n *Notification) bool {
		return n.TargetRole != nil && *n.TargetRole == role
	}), nil
}

func (m *MemStore) ListNotificationsForUser(_ context.Context, userID int64) ([]Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collectNotifications(func(n *Notification) bool {
		return n.TargetUserID != nil && *n.TargetUserID == userID
	}), nil
}

func (m *MemStore) collectNotifications(match func(*Notification) bool) []Notification {
	notifications := make([]Notification, 0)
	for _, n := range m.notifications {
		if match(n) {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return notifications
}

func (m *MemStore) MarkNotificationRead(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return types.NewNotFoundError("notificacion", id)
	}
	n.Read = true
	return nil
}

func (m *MemStore) CountUnreadForRole(_ context.Context, role string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.notifications {
		if !n.Read && n.TargetRole != nil && *n.TargetRole == role {
			count++
		}
	}
	return count, nil
}

func (m *MemStore) CountUnreadForUser(_ context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.notifications {
		if !n.Read && n.TargetUserID != nil && *n.TargetUserID == userID {
			count++
		}
	}
	return count, nil
}

// delegations

func (m *MemStore) InsertDelegation(_ context.Context, d Delegation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = m.nextSerial()
	d.CreatedAt = time.Now()
	stored := d
	m.delegations[d.ID] = &stored
	return d.ID, nil
}

func (m *MemStore) ListDelegationsForTechnician(_ context.Context, technicianID int64) ([]Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	delegations := make([]Delegation, 0)
	for _, d := range m.delegations {
		if d.TechnicianID == technicianID {
			delegations = append(delegations, *d)
		}
	}
	sort.Slice(delegations, func(i, j int) bool { return delegations[i].ID > delegations[j].ID })
	return delegations, nil
}

// maintenance

func (m *MemStore) InsertMaintenanceRecord(_ context.Context, rec MaintenanceRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = m.nextSerial()
	rec.CreatedAt = time.Now()
	stored := rec
	m.maintenance[rec.ID] = &stored
	return rec.ID, nil
}

func (m *MemStore) ListMaintenanceRecords(_ context.Context, equipmentID int64) ([]MaintenanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]MaintenanceRecord, 0)
	for _, rec := range m.maintenance {
		if rec.EquipmentID == equipmentID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	return records, nil
}

// tracking

func (m *MemStore) AddTracking(_ context.Context, userID, equipmentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.equipment[equipmentID]; !ok {
		return 0, types.NewNotFoundError("equipo", equipmentID)
	}
	for _, t := range m.tracking {
		if t.UserID == userID && t.EquipmentID == equipmentID {
			return 0, types.NewValidationError("equipo_id", "el equipo ya esta en seguimiento")
		}
	}

	entry := &TrackingEntry{
		ID:          m.nextSerial(),
		UserID:      userID,
		EquipmentID: equipmentID,
		CreatedAt:   time.Now(),
	}
	m.tracking[entry.ID] = entry
	return entry.ID, nil
}

func (m *MemStore) ListTracking(_ context.Context, userID int64) ([]TrackingEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]TrackingEntry, 0)
	for _, t := range m.tracking {
		if t.UserID == userID {
			entries = append(entries, *t)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (m *MemStore) RemoveTracking(_ context.Context, userID, trackingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracking[trackingID]
	if !ok || t.UserID != userID {
		return types.NewNotFoundError("seguimiento", trackingID)
	}
	delete(m.tracking, trackingID)
	return nil
}
