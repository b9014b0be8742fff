package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	postsrepo "github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	refreshtokensrepo "github.com/dmitrijs2005/gophblog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func mustHash(t *testing.T, password string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return h
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	created *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr error

	createErr error
	createdFor []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.createdFor = append(f.createdFor, userID)
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository                 { return nil }

func TestRefreshToken_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u1", UserName: "alice"}},
		r: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
		},
	}
	s := newUserService(t, db, rm)

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pair.AccessToken == "" || len(pair.RefreshToken) != 64 {
		t.Fatalf("unexpected tokens: %+v", pair)
	}
	claims, err := auth.ParseToken(pair.AccessToken, []byte("k"))
	if err != nil || claims.UserName != "alice" {
		t.Fatalf("access token claims: %+v, %v", claims, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		r: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(-1 * time.Minute)},
		},
	}
	s := newUserService(t, db, rm)

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired, got %v", err)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{r: &fakeRefreshRepo{findErr: common.ErrorNotFound}}
	s := newUserService(t, db, rm)

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestRefreshToken_FindErr(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{r: &fakeRefreshRepo{findErr: errBoom{}}}
	s := newUserService(t, db, rm)

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error searching refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped find error, got %v", err)
	}
}

func TestRefreshToken_DeleteErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u1", UserName: "alice"}},
		r: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
			delErr:  errBoom{},
		},
	}
	s := newUserService(t, db, rm)

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error deleting refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped delete error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_CreateErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u1", UserName: "alice"}},
		r: &fakeRefreshRepo{
			findOut:   &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
			createErr: errBoom{},
		},
	}
	s := newUserService(t, db, rm)

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected ErrorInternal, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := &fakeUsersRepo{createOut: &models.User{ID: "42", UserName: "alice"}}
	refresh := &fakeRefreshRepo{}
	s := newUserService(t, db, &fakeRepoManager{u: users, r: refresh})

	res, err := s.Register(context.Background(), "  alice ", "a@example.com", "secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if res.User.ID != "42" || res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if users.created.UserName != "alice" || users.created.Email != "a@example.com" {
		t.Fatalf("unexpected stored user: %+v", users.created)
	}
	if bcrypt.CompareHashAndPassword(users.created.PasswordHash, []byte("secret")) != nil {
		t.Fatal("stored hash does not match password")
	}
	if len(refresh.createdFor) != 1 || refresh.createdFor[0] != "42" {
		t.Fatalf("refresh token not issued: %v", refresh.createdFor)
	}
}

func TestRegister_Errors(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeRefreshRepo{}})
	if _, err := s.Register(context.Background(), " ", "", "p"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("blank name: want ErrorValidation, got %v", err)
	}
	if _, err := s.Register(context.Background(), "alice", "", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("blank password: want ErrorValidation, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	sDup := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}, r: &fakeRefreshRepo{}})
	if _, err := sDup.Register(context.Background(), "alice", "", "p"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("duplicate: want ErrorAlreadyExists, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	sErr := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}, r: &fakeRefreshRepo{}})
	_, err := sErr.Register(context.Background(), "bob", "", "p")
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("Register expected wrapped error, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// not found → unauthorized
	sNF := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}, r: &fakeRefreshRepo{}})
	if _, err := sNF.Login(context.Background(), "ghost", "x"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("notfound → unauthorized, got %v", err)
	}

	sIE := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}, r: &fakeRefreshRepo{}})
	if _, err := sIE.Login(context.Background(), "u", "x"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("internal → ErrorInternal, got %v", err)
	}

	stored := &models.User{ID: "u1", UserName: "u", PasswordHash: mustHash(t, "right")}

	sWP := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getOut: stored}, r: &fakeRefreshRepo{}})
	if _, err := sWP.Login(context.Background(), "u", "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("wrong password → unauthorized, got %v", err)
	}

	if _, err := sWP.Login(context.Background(), "", "right"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("blank name → validation, got %v", err)
	}

	res, err := sWP.Login(context.Background(), "u", "right")
	if err != nil || res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" || res.User.ID != "u1" {
		t.Fatalf("Login success: res=%+v err=%v", res, err)
	}
}

func TestUserService_InMemoryEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t, nil, repomanager.NewMemoryRepositoryManager())

	reg, err := s.Register(ctx, "alice", "", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := s.Register(ctx, "alice", "", "pw2"); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}

	login, err := s.Login(ctx, "alice", "pw")
	if err != nil || login.User.ID != reg.User.ID {
		t.Fatalf("Login: %+v %v", login, err)
	}

	pair, err := s.RefreshToken(ctx, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if pair.RefreshToken == login.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	if _, err := s.RefreshToken(ctx, login.Tokens.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("reused refresh token: want ErrorUnauthorized, got %v", err)
	}
}
