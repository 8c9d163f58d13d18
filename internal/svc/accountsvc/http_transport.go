package accountsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mkrupp/userapi/internal/domain"
	context_ "github.com/mkrupp/userapi/internal/infra/context"
	"github.com/mkrupp/userapi/internal/infra/logging"
	http_ "github.com/mkrupp/userapi/internal/infra/transport/http"
)

const maxBodyBytes = 1 << 20

var (
	// ErrInvalidAccountID is returned when the {id} path segment is not a positive integer.
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrUnknownQueryParam is returned when GET /user carries a parameter it does not understand.
	ErrUnknownQueryParam = errors.New("unknown query parameter")
	// ErrMalformedBody is returned when a request body is not the expected JSON object.
	ErrMalformedBody = errors.New("malformed request body")
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig
}

// HTTPTransport handles HTTP requests for the account service.
type HTTPTransport struct {
	accountSvc *AccountService
	log        logging.Logger
	cfg        HTTPTransportConfig
	mux        *http.ServeMux
}

// NewHTTPTransport creates a new HTTPTransport instance with the given configuration and
// registers the account routes:
// - POST /signup: Create an account
// - POST /login: Exchange email and password for a session token
// - GET /user: Find accounts by substring filters
// - GET /user/{id}: Get an account
// - PATCH /user/{id}: Update name and/or email
// - DELETE /user/{id}: Delete an account
// - GET /me: Get the account of the bearer token.
func NewHTTPTransport(
	accountSvc *AccountService,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	ht := &HTTPTransport{
		accountSvc: accountSvc,
		log:        logging.GetLogger("svc.accountsvc.http_transport"),
		cfg:        cfg,
		mux:        http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /signup", ht.HandleSignup)
	ht.mux.HandleFunc("POST /login", ht.HandleLogin)
	ht.mux.HandleFunc("GET /user", ht.HandleFindAccounts)
	ht.mux.HandleFunc("GET /user/{id}", ht.HandleGetAccount)
	ht.mux.HandleFunc("PATCH /user/{id}", ht.HandleUpdateAccount)
	ht.mux.HandleFunc("DELETE /user/{id}", ht.HandleDeleteAccount)
	ht.mux.Handle("GET /me", http_.AuthorizingMiddleware(
		http.HandlerFunc(ht.HandleMe), accountSvc, ht.log,
	))

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// handle runs fn and answers with its error, if any. fn writes the success response itself.
func (ht *HTTPTransport) handle(
	w http.ResponseWriter,
	r *http.Request,
	msg string,
	fn func(log logging.Logger) error,
) {
	ctx := r.Context()
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	if err := fn(log); err != nil {
		log.DebugContext(ctx, msg+" failed", "error", err)
		http_.WriteError(ctx, w, err, log)

		return
	}

	log.DebugContext(ctx, msg)
}

// HandleSignup processes account creation requests.
// Expects a JSON body: email, password, and optionally name and username.
func (ht *HTTPTransport) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "account signed up", func(log logging.Logger) error {
		var req SignupRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			return err
		}

		acc, err := ht.accountSvc.Signup(r.Context(), req)
		if err != nil {
			return fmt.Errorf("signup: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusCreated, acc, log)

		return nil
	})
}

// HandleLogin processes login requests.
// Expects a JSON body: email, password.
// Returns a session token on success.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "account logged in", func(log logging.Logger) error {
		var req LoginRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			return err
		}

		token, err := ht.accountSvc.Login(r.Context(), req)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, domain.AuthTokenResponse{Token: token}, log)

		return nil
	})
}

// HandleFindAccounts lists accounts by substring filters.
// Accepts the query parameters nameHas, emailHas and userNameHas.
func (ht *HTTPTransport) HandleFindAccounts(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "accounts found", func(log logging.Logger) error {
		req, err := parseFindAccountsRequest(r)
		if err != nil {
			return err
		}

		accounts, err := ht.accountSvc.FindAccounts(r.Context(), req)
		if err != nil {
			return fmt.Errorf("find accounts: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, accounts, log)

		return nil
	})
}

// HandleGetAccount returns a single account.
func (ht *HTTPTransport) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "account fetched", func(log logging.Logger) error {
		id, err := accountID(r)
		if err != nil {
			return err
		}

		acc, err := ht.accountSvc.GetAccount(r.Context(), id)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, acc, log)

		return nil
	})
}

// HandleUpdateAccount changes the name and/or email of an account.
// Expects a JSON body with only the fields name and email.
func (ht *HTTPTransport) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "account updated", func(log logging.Logger) error {
		id, err := accountID(r)
		if err != nil {
			return err
		}

		var req UpdateAccountRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			return err
		}

		acc, err := ht.accountSvc.UpdateAccount(r.Context(), id, req)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, acc, log)

		return nil
	})
}

// HandleDeleteAccount deletes an account and returns it.
func (ht *HTTPTransport) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "account deleted", func(log logging.Logger) error {
		id, err := accountID(r)
		if err != nil {
			return err
		}

		acc, err := ht.accountSvc.DeleteAccount(r.Context(), id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, acc, log)

		return nil
	})
}

// HandleMe returns the account of the verified session.
// Must be mounted behind the authorizing middleware.
func (ht *HTTPTransport) HandleMe(w http.ResponseWriter, r *http.Request) {
	ht.handle(w, r, "session account fetched", func(log logging.Logger) error {
		claim, ok := context_.SessionClaimFromContext(r.Context())
		if !ok {
			return domain.ErrNoAuthToken
		}

		acc, err := ht.accountSvc.GetAccount(r.Context(), claim.AccountID)
		if err != nil {
			return fmt.Errorf("get session account: %w", err)
		}

		http_.WriteJSON(r.Context(), w, http.StatusOK, acc, log)

		return nil
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError(fmt.Errorf("%w: %w", ErrMalformedBody, err))
	}

	return nil
}

func accountID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(fmt.Errorf("%w: %q", ErrInvalidAccountID, raw))
	}

	return id, nil
}

func parseFindAccountsRequest(r *http.Request) (FindAccountsRequest, error) {
	var req FindAccountsRequest

	for key, values := range r.URL.Query() {
		var value string
		if len(values) > 0 {
			value = values[0]
		}

		switch key {
		case "nameHas":
			req.NameHas = value
		case "emailHas":
			req.EmailHas = value
		case "userNameHas":
			req.UserNameHas = value
		default:
			return FindAccountsRequest{}, domain.NewValidationError(fmt.Errorf("%w: %q", ErrUnknownQueryParam, key))
		}
	}

	return req, nil
}
