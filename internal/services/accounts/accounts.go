package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"streamhub/proj/internal/domain/errs"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/storage"

	"github.com/google/uuid"
)

const (
	DefaultProfileID     = "1"
	DefaultProfileName   = "Profile 1"
	DefaultProfileAvatar = "/avatars/default-1.png"

	welcomeTemplate = "user_welcome.tmpl"
)

type AccountStorage interface {
	Insert(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	HasProtected(ctx context.Context) (bool, error)
	UpdateRole(ctx context.Context, id string, role rbac.Role, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	AddToWatchlist(ctx context.Context, accountID, profileID, contentID string) error
	RemoveFromWatchlist(ctx context.Context, accountID, profileID, contentID string) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type Directory struct {
	log          *slog.Logger
	storage      AccountStorage
	hasher       PasswordHasher
	tokens       TokenIssuer
	mailer       MailProvider
	taskExecutor TaskExecutor
	ownerEmail   string
	now          func() time.Time
}

func New(
	log *slog.Logger,
	storage AccountStorage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	ownerEmail string,
) *Directory {
	return &Directory{
		log:          log,
		storage:      storage,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		ownerEmail:   normalizeEmail(ownerEmail),
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a MEMBER account with one default profile. The configured
// owner email gets OWNER and, while no other account holds it, the protected flag.
func (d *Directory) Register(ctx context.Context, email, password string, favoriteGenres []string) (*models.Account, error) {
	const op = "accounts.Directory.Register"
	email = normalizeEmail(email)
	log := d.log.With("op", op, "email", email)
	if email == "" {
		return nil, errs.NewValidation("email", "This field is required")
	}
	hash, err := d.hasher.Hash(password)
	if err != nil {
		log.Info("failed to hash password", "errMsg", err.Error())
		return nil, errs.NewValidation("password", "This field is required")
	}

	role := rbac.Member
	protected := false
	if email == d.ownerEmail {
		role = rbac.Owner
		exists, err := d.storage.HasProtected(ctx)
		if err != nil {
			log.Error("Error checking protected account", "errMsg", err.Error())
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		protected = !exists
	}

	now := d.now().UTC()
	if favoriteGenres == nil {
		favoriteGenres = []string{}
	}
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Protected:    protected,
		Profiles: []models.Profile{{
			ID:             DefaultProfileID,
			Name:           DefaultProfileName,
			Avatar:         DefaultProfileAvatar,
			FavoriteGenres: favoriteGenres,
			Watchlist:      []string{},
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.storage.Insert(ctx, account); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("account already exists")
			return nil, ErrAccountAlreadyExists
		}
		log.Error("Error inserting account", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("account registered", "id", account.ID, "role", role)

	if d.taskExecutor != nil && d.mailer != nil {
		d.taskExecutor.Add(func() {
			d.sendWelcomeEmail(account.Email, account.Profiles[0].Name)
		})
	}
	return account, nil
}

func (d *Directory) sendWelcomeEmail(email, profileName string) {
	const op = "accounts.Directory.sendWelcomeEmail"
	log := d.log.With("op", op, "email", email)
	err := d.mailer.Send(email, welcomeTemplate, map[string]any{
		"email":       email,
		"profileName": profileName,
	})
	if err != nil {
		log.Error("Error sending welcome email", "errMsg", err.Error())
		return
	}
	log.Info("welcome email sent")
}

type LoginResult struct {
	Token   string
	Account *models.Account
}

// Authenticate never tells an unknown email apart from a wrong password.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "accounts.Directory.Authenticate"
	email = normalizeEmail(email)
	log := d.log.With("op", op, "email", email)
	account, err := d.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("login failed")
			return nil, ErrInvalidCredentials
		}
		log.Error("Error getting account", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ok, err := d.hasher.Compare(account.PasswordHash, password)
	if err != nil || !ok {
		log.Info("login failed")
		return nil, ErrInvalidCredentials
	}
	token, err := d.tokens.Issue(account.ID)
	if err != nil {
		log.Error("Error issuing token", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, Account: account}, nil
}

func (d *Directory) Get(ctx context.Context, id string) (*models.Account, error) {
	const op = "accounts.Directory.Get"
	log := d.log.With("op", op, "id", id)
	account, err := d.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		log.Error("Error getting account", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// Principal resolves the caller identity of a verified token. The role is
// always the one currently stored.
func (d *Directory) Principal(ctx context.Context, accountID string) (*models.Principal, error) {
	account, err := d.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
		Protected: account.Protected,
	}, nil
}

func (d *Directory) List(ctx context.Context, actor *models.Principal) ([]models.Account, error) {
	const op = "accounts.Directory.List"
	log := d.log.With("op", op)
	if actor == nil || !rbac.HasPermission(actor.Role, rbac.DirectoryReadRole) {
		return nil, ErrInsufficientRole
	}
	list, err := d.storage.List(ctx)
	if err != nil {
		log.Error("Error listing accounts", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range list {
		list[i].PasswordHash = nil
	}
	return list, nil
}

// canSetRole applies the role assignment policy. It never touches storage.
func canSetRole(actor *models.Principal, target *models.Account, newRole rbac.Role) error {
	if target.Protected && actor.AccountID != target.ID {
		return ErrAccountProtected
	}
	if !rbac.CanManage(actor.Role, newRole) {
		return ErrInsufficientRole
	}
	if actor.AccountID == target.ID {
		return nil
	}
	if !rbac.CanManage(actor.Role, target.Role) {
		return ErrInsufficientRole
	}
	if actor.Role == rbac.Manager && target.Role != rbac.Member {
		return ErrInsufficientRole
	}
	return nil
}

func (d *Directory) SetRole(ctx context.Context, actor *models.Principal, targetID string, newRole rbac.Role) (*models.Account, error) {
	const op = "accounts.Directory.SetRole"
	log := d.log.With("op", op, "target", targetID, "newRole", newRole)
	if !newRole.IsValid() {
		return nil, errs.NewValidation("role", "Value must be one of MEMBER, STAFF, MANAGER, ADMIN, OWNER")
	}
	if actor == nil || !rbac.HasPermission(actor.Role, rbac.RoleAssignRole) {
		return nil, ErrInsufficientRole
	}
	log = log.With("actor", actor.AccountID, "actorRole", actor.Role)
	target, err := d.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := canSetRole(actor, target, newRole); err != nil {
		log.Warn("role change rejected", "targetRole", target.Role, "reason", err.Error())
		return nil, err
	}
	updatedAt := d.now().UTC()
	if err := d.storage.UpdateRole(ctx, target.ID, newRole, updatedAt); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		log.Error("Error updating role", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("role changed", "from", target.Role)
	target.Role = newRole
	target.UpdatedAt = updatedAt
	return target, nil
}

// Delete is reserved to OWNER. The protected account can never be deleted.
func (d *Directory) Delete(ctx context.Context, actor *models.Principal, targetID string) error {
	const op = "accounts.Directory.Delete"
	log := d.log.With("op", op, "target", targetID)
	if actor == nil || !rbac.HasPermission(actor.Role, rbac.AccountDeleteRole) {
		return ErrInsufficientRole
	}
	target, err := d.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Protected {
		log.Warn("attempt to delete protected account", "actor", actor.AccountID)
		return ErrAccountProtected
	}
	if err := d.storage.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("Error deleting account", "errMsg", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("account deleted", "actor", actor.AccountID)
	return nil
}

func (d *Directory) AddToWatchlist(ctx context.Context, actor *models.Principal, profileID, contentID string) error {
	return d.updateWatchlist(ctx, "accounts.Directory.AddToWatchlist", actor, profileID, contentID, d.storage.AddToWatchlist)
}

func (d *Directory) RemoveFromWatchlist(ctx context.Context, actor *models.Principal, profileID, contentID string) error {
	return d.updateWatchlist(ctx, "accounts.Directory.RemoveFromWatchlist", actor, profileID, contentID, d.storage.RemoveFromWatchlist)
}

// updateWatchlist only ever touches profiles of the caller's own account.
func (d *Directory) updateWatchlist(
	ctx context.Context,
	op string,
	actor *models.Principal,
	profileID, contentID string,
	update func(ctx context.Context, accountID, profileID, contentID string) error,
) error {
	if actor == nil {
		return ErrAuthRequired
	}
	if profileID == "" {
		return errs.NewValidation("profileId", "This field is required")
	}
	if contentID == "" {
		return errs.NewValidation("contentId", "This field is required")
	}
	log := d.log.With("op", op, "account", actor.AccountID, "profile", profileID, "content", contentID)
	if err := update(ctx, actor.AccountID, profileID, contentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProfileNotFound
		}
		log.Error("Error updating watchlist", "errMsg", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
