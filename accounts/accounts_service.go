package accounts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/store"
	"github.com/ipahub/ipahub/store/cookies"
)

var ErrAccountNotFound = errors.New("account not found")

type accountsService struct {
	db *gorm.DB
}

type AccountsService interface {
	CreateAccount(createAccountRequest *CreateAccountRequest) (*db.Account, error)
	GetAccount(email string) (*db.Account, error)
	ListAccounts() ([]db.Account, error)
	DeleteAccount(email string) error
	UpdateCookies(email string, jar cookies.Jar) error
	StoreAccount(account *db.Account) (store.Account, error)
}

type CreateAccountRequest struct {
	Email         string `json:"email"`
	DSID          string `json:"dsid"`
	PasswordToken string `json:"passwordToken"`
	Storefront    string `json:"storefront"`
	Pod           string `json:"pod"`
	DeviceID      string `json:"deviceId"`
}

func NewAccountsService(gormDB *gorm.DB) *accountsService {
	return &accountsService{
		db: gormDB,
	}
}

func (svc *accountsService) CreateAccount(createAccountRequest *CreateAccountRequest) (*db.Account, error) {
	if createAccountRequest.Email == "" {
		return nil, errors.New("email is required")
	}
	if createAccountRequest.DSID == "" {
		return nil, errors.New("dsid is required")
	}
	if createAccountRequest.PasswordToken == "" {
		return nil, errors.New("password token is required")
	}

	deviceID := createAccountRequest.DeviceID
	if deviceID == "" {
		// stable per-install GUID, generated once per account
		deviceID = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
	}

	account := db.Account{
		Email:         strings.ToLower(createAccountRequest.Email),
		DSID:          createAccountRequest.DSID,
		DeviceID:      deviceID,
		PasswordToken: createAccountRequest.PasswordToken,
		Storefront:    createAccountRequest.Storefront,
		Pod:           createAccountRequest.Pod,
		Cookies:       datatypes.JSON("{}"),
	}

	err := svc.db.Create(&account).Error
	if err != nil {
		logger.Logger.Error().Err(err).Str("email", account.Email).Msg("Failed to create account")
		return nil, err
	}

	logger.Logger.Info().Str("email", account.Email).Msg("Created account")
	return &account, nil
}

func (svc *accountsService) GetAccount(email string) (*db.Account, error) {
	var account db.Account
	result := svc.db.Limit(1).Find(&account, &db.Account{Email: strings.ToLower(email)})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (svc *accountsService) ListAccounts() ([]db.Account, error) {
	accounts := []db.Account{}
	err := svc.db.Order("created_at asc").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (svc *accountsService) DeleteAccount(email string) error {
	account, err := svc.GetAccount(email)
	if err != nil {
		return err
	}
	return svc.db.Delete(account).Error
}

// UpdateCookies persists the jar returned by a store call. Session
// continuity depends on this running before the next call for the account.
func (svc *accountsService) UpdateCookies(email string, jar cookies.Jar) error {
	serialized, err := json.Marshal(jar)
	if err != nil {
		return fmt.Errorf("failed to serialize cookie jar: %w", err)
	}

	now := time.Now()
	return svc.db.Model(&db.Account{}).
		Where("email = ?", strings.ToLower(email)).
		Updates(map[string]interface{}{
			"cookies":      datatypes.JSON(serialized),
			"last_used_at": &now,
		}).Error
}

// StoreAccount maps a persisted account to the snapshot the protocol client
// consumes. The client never sees the database record.
func (svc *accountsService) StoreAccount(account *db.Account) (store.Account, error) {
	jar := cookies.Jar{}
	if len(account.Cookies) > 0 {
		if err := json.Unmarshal(account.Cookies, &jar); err != nil {
			return store.Account{}, fmt.Errorf("failed to parse stored cookie jar: %w", err)
		}
	}

	return store.Account{
		Email:         account.Email,
		DeviceID:      account.DeviceID,
		DSID:          account.DSID,
		PasswordToken: account.PasswordToken,
		Storefront:    account.Storefront,
		Pod:           account.Pod,
		Cookies:       jar,
	}, nil
}

// AccountHash identifies an account towards the download registry without
// exposing the email.
func AccountHash(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// JarChanged reports whether a store call rotated any cookies, so callers
// can skip needless persistence writes.
func JarChanged(before, after cookies.Jar) bool {
	return !reflect.DeepEqual(before, after)
}
