package usermanagement

import (
	"errors"
	"sort"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OdamboMichael/ims.xp/pkg/user-management/pwhash"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

const testInstanceID = "testinstance"

var errNotFound = errors.New("not found")

// memStore is an in-memory stand-in for the account and institution DB
// services, implementing all store contracts of this package.
type memStore struct {
	users        map[string]userTypes.User
	otps         []userTypes.OtpRecord
	attempts     []userTypes.LoginAttempt
	pendingAuths map[string]userTypes.PendingAuth
	institutions map[string]userTypes.Institution

	failPinUpdate bool
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]userTypes.User{},
		pendingAuths: map[string]userTypes.PendingAuth{},
		institutions: map[string]userTypes.Institution{},
	}
}

func (s *memStore) AddUser(instanceID string, user userTypes.User) (string, error) {
	for _, u := range s.users {
		if u.Account.AccountID == user.Account.AccountID {
			return "", errors.New("duplicate accountID")
		}
	}
	user.ID = primitive.NewObjectID()
	s.users[user.ID.Hex()] = user
	return user.ID.Hex(), nil
}

func (s *memStore) GetUser(instanceID string, userID string) (userTypes.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return userTypes.User{}, errNotFound
	}
	return user, nil
}

func (s *memStore) GetUserByAccountID(instanceID string, accountID string) (userTypes.User, error) {
	for _, u := range s.users {
		if u.Account.AccountID == accountID {
			return u, nil
		}
	}
	return userTypes.User{}, errNotFound
}

func (s *memStore) AccountIDExists(instanceID string, accountID string) (bool, error) {
	_, err := s.GetUserByAccountID(instanceID, accountID)
	return err == nil, nil
}

func (s *memStore) DeleteUser(instanceID string, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return errNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *memStore) RecordSuccessfulLogin(instanceID string, userID string, origin string) error {
	user, ok := s.users[userID]
	if !ok {
		return errNotFound
	}
	user.Timestamps.LastLogin = time.Now().Unix()
	user.Profile.LastLoginIP = origin
	s.users[userID] = user
	return nil
}

func (s *memStore) SetProfilePin(instanceID string, userID string, pin string) error {
	if s.failPinUpdate {
		return errors.New("write failed")
	}
	user, ok := s.users[userID]
	if !ok {
		return errNotFound
	}
	user.Profile.PIN = pin
	s.users[userID] = user
	return nil
}

func (s *memStore) UpdateSecurityPolicy(instanceID string, userID string, policy userTypes.SecurityPolicy) error {
	user, ok := s.users[userID]
	if !ok {
		return errNotFound
	}
	user.SecurityPolicy = policy
	s.users[userID] = user
	return nil
}

func (s *memStore) ConfirmAccountEmail(instanceID string, userID string) error {
	user, ok := s.users[userID]
	if !ok {
		return errNotFound
	}
	user.Profile.EmailVerified = true
	user.Account.AccountConfirmedAt = time.Now().Unix()
	s.users[userID] = user
	return nil
}

func (s *memStore) CreateOTP(instanceID string, otp userTypes.OtpRecord) (userTypes.OtpRecord, error) {
	otp.ID = primitive.NewObjectID()
	s.otps = append(s.otps, otp)
	return otp, nil
}

func (s *memStore) GetLatestUnusedOTP(instanceID string, userID string, purpose userTypes.OtpPurpose) (userTypes.OtpRecord, error) {
	var latest *userTypes.OtpRecord
	for i := range s.otps {
		otp := &s.otps[i]
		if otp.UserID != userID || otp.Purpose != purpose || otp.Used {
			continue
		}
		if latest == nil || otp.CreatedAt.After(latest.CreatedAt) {
			latest = otp
		}
	}
	if latest == nil {
		return userTypes.OtpRecord{}, errNotFound
	}
	return *latest, nil
}

func (s *memStore) MarkOTPUsed(instanceID string, otpID primitive.ObjectID) error {
	for i := range s.otps {
		if s.otps[i].ID == otpID {
			if s.otps[i].Used {
				return errors.New("otp already used")
			}
			s.otps[i].Used = true
			return nil
		}
	}
	return errNotFound
}

func (s *memStore) UnmarkOTPUsed(instanceID string, otpID primitive.ObjectID) error {
	for i := range s.otps {
		if s.otps[i].ID == otpID {
			s.otps[i].Used = false
			return nil
		}
	}
	return errNotFound
}

func (s *memStore) CountRecentOTPs(instanceID string, userID string, purpose userTypes.OtpPurpose, since time.Time) (int64, error) {
	var count int64
	for _, otp := range s.otps {
		if otp.UserID == userID && otp.Purpose == purpose && otp.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) SaveLoginAttempt(instanceID string, attempt userTypes.LoginAttempt) error {
	attempt.ID = primitive.NewObjectID()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *memStore) CountRecentFailedAttempts(instanceID string, userID string, since time.Time) (int64, error) {
	var count int64
	for _, attempt := range s.attempts {
		if attempt.UserID == userID && !attempt.Success && attempt.Timestamp.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) GetLoginHistory(instanceID string, userID string, limit int64) ([]userTypes.LoginAttempt, error) {
	history := []userTypes.LoginAttempt{}
	for _, attempt := range s.attempts {
		if attempt.UserID == userID {
			history = append(history, attempt)
		}
	}
	// newest first, capped, like the DB service
	sort.Slice(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})
	if limit > 0 && int64(len(history)) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (s *memStore) CreatePendingAuth(instanceID string, pending userTypes.PendingAuth) error {
	s.pendingAuths[pending.Token] = pending
	return nil
}

func (s *memStore) GetPendingAuth(instanceID string, token string) (userTypes.PendingAuth, error) {
	pending, ok := s.pendingAuths[token]
	if !ok {
		return userTypes.PendingAuth{}, errNotFound
	}
	return pending, nil
}

func (s *memStore) DeletePendingAuth(instanceID string, token string) error {
	delete(s.pendingAuths, token)
	return nil
}

func (s *memStore) CreateInstitution(instanceID string, inst userTypes.Institution) (userTypes.Institution, error) {
	inst.ID = primitive.NewObjectID()
	s.institutions[inst.ID.Hex()] = inst
	return inst, nil
}

func (s *memStore) GetInstitutionByID(instanceID string, institutionID string) (userTypes.Institution, error) {
	inst, ok := s.institutions[institutionID]
	if !ok {
		return userTypes.Institution{}, errNotFound
	}
	return inst, nil
}

func (s *memStore) InstitutionEmailInUse(instanceID string, email string) (bool, error) {
	for _, inst := range s.institutions {
		if inst.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteInstitution(instanceID string, institutionID string) error {
	if _, ok := s.institutions[institutionID]; !ok {
		return errNotFound
	}
	delete(s.institutions, institutionID)
	return nil
}

func setupTestStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	Init(store, store, store, store, store)
	return store
}

func addTestUser(t *testing.T, store *memStore, email string, password string, pin string) userTypes.User {
	t.Helper()
	hash, err := pwhash.HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// account IDs are stored sanitized, like the registration path does
	user := umUtils.InitNewUser(umUtils.SanitizeEmail(email), hash, pin, userTypes.ROLE_MANAGER, primitive.NewObjectID(), "en")
	userID, err := store.AddUser(testInstanceID, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, err = store.GetUser(testInstanceID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return user
}

func (s *memStore) countAttempts(userID string) (total int, successes int) {
	for _, attempt := range s.attempts {
		if attempt.UserID == userID {
			total++
			if attempt.Success {
				successes++
			}
		}
	}
	return total, successes
}
