// Package directory authenticates users against an LDAP/Active Directory
// server. A service account resolves the user's distinguished name and
// attributes; the user's own credentials are used for exactly one thing, a
// verification bind on a fresh connection.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/scholarspace/user-service/internal/config"
	"github.com/scholarspace/user-service/internal/models"
)

// Typed failures per operation. Infrastructure problems wrap
// models.ErrDirectoryUnavailable so callers can log them apart from plain
// credential rejections.
var (
	// ErrAmbiguousIdentifier means the directory returned more than one entry
	// for a single identifier. Authentication fails closed rather than picking
	// one arbitrarily.
	ErrAmbiguousIdentifier = errors.New("directory returned multiple entries for identifier")
)

// Identity is the transient result of a directory lookup. It is computed
// fresh on every login and never persisted by this package.
type Identity struct {
	Name           string
	GivenName      string
	Surname        string
	SAMAccountName string
	DN             string
	Role           models.Role
}

// Conn is the subset of *ldap.Conn the authenticator uses. Narrowed for
// testability.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DialFunc opens a connection to the configured directory server.
type DialFunc func(cfg *config.DirectoryConfig) (Conn, error)

func dialLDAP(cfg *config.DirectoryConfig) (Conn, error) {
	conn, err := ldap.DialURL(cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: cfg.Timeout}))
	if err != nil {
		return nil, err
	}
	conn.SetTimeout(cfg.Timeout)
	return conn, nil
}

// Authenticator verifies credentials and resolves identities against the
// directory. It holds no per-attempt state; every call starts from scratch.
type Authenticator struct {
	cfg    *config.DirectoryConfig
	dial   DialFunc
	logger *slog.Logger
}

func NewAuthenticator(cfg *config.DirectoryConfig, logger *slog.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, dial: dialLDAP, logger: logger}
}

// NewAuthenticatorWithDialer injects a custom dialer. Used by tests.
func NewAuthenticatorWithDialer(cfg *config.DirectoryConfig, dial DialFunc, logger *slog.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, dial: dial, logger: logger}
}

// Authenticate verifies identifier+password. The only proof of a correct
// password is a successful bind as the resolved DN. Wrong credentials and
// unknown identifiers both return (false, nil); infrastructure failures
// return (false, err) so the caller can log them while still rejecting.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	svc, err := a.serviceConn()
	if err != nil {
		return false, err
	}
	defer svc.Close()

	dn, err := a.resolveDN(svc, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, ErrAmbiguousIdentifier) {
			// Do not tell the caller whether the identifier exists.
			a.logger.Info("directory authentication rejected",
				slog.Any("reason", err))
			return false, nil
		}
		return false, err
	}

	// Fresh connection for the verification bind; the service connection
	// must never carry user credentials.
	userConn, err := a.dial(a.cfg)
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}
	defer userConn.Close()

	if err := userConn.Bind(dn, password); err != nil {
		a.logger.Info("directory bind rejected", slog.String("dn", dn))
		return false, nil
	}

	return true, nil
}

// LookupIdentity fetches display attributes and resolves the role from group
// membership, all under the service account.
func (a *Authenticator) LookupIdentity(ctx context.Context, identifier string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(identifier) == "" {
		return nil, models.ErrNotFound
	}

	svc, err := a.serviceConn()
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	result, err := svc.Search(a.userSearchRequest(identifier, []string{
		"displayName", "givenName", "sn", "sAMAccountName", "distinguishedName",
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: user search: %v", models.ErrDirectoryUnavailable, err)
	}

	switch len(result.Entries) {
	case 0:
		return nil, models.ErrNotFound
	case 1:
	default:
		return nil, ErrAmbiguousIdentifier
	}

	entry := result.Entries[0]
	identity := &Identity{
		GivenName:      entry.GetAttributeValue("givenName"),
		Surname:        entry.GetAttributeValue("sn"),
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		DN:             entry.GetAttributeValue("distinguishedName"),
	}
	if identity.DN == "" {
		identity.DN = entry.DN
	}

	identity.Name = entry.GetAttributeValue("displayName")
	if identity.Name == "" {
		identity.Name = strings.TrimSpace(identity.GivenName + " " + identity.Surname)
	}

	groups, err := a.memberGroups(svc, identity.DN)
	if err != nil {
		return nil, err
	}
	identity.Role = a.roleFromGroups(groups)

	return identity, nil
}

// serviceConn dials and binds as the service account.
func (a *Authenticator) serviceConn() (Conn, error) {
	conn, err := a.dial(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", models.ErrDirectoryUnavailable, err)
	}

	if err := conn.Bind(a.cfg.BindDN, a.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: service bind: %v", models.ErrDirectoryUnavailable, err)
	}

	return conn, nil
}

// resolveDN finds the distinguished name for an identifier. Exactly one
// match is required.
func (a *Authenticator) resolveDN(conn Conn, identifier string) (string, error) {
	result, err := conn.Search(a.userSearchRequest(identifier, []string{"distinguishedName"}))
	if err != nil {
		return "", fmt.Errorf("%w: user search: %v", models.ErrDirectoryUnavailable, err)
	}

	switch len(result.Entries) {
	case 0:
		return "", models.ErrNotFound
	case 1:
	default:
		return "", ErrAmbiguousIdentifier
	}

	entry := result.Entries[0]
	if dn := entry.GetAttributeValue("distinguishedName"); dn != "" {
		return dn, nil
	}
	return entry.DN, nil
}

func (a *Authenticator) userSearchRequest(identifier string, attrs []string) *ldap.SearchRequest {
	escaped := ldap.EscapeFilter(identifier)
	filter := fmt.Sprintf("(|(userPrincipalName=%s)(sAMAccountName=%s))", escaped, escaped)

	base := a.cfg.UserSearchBase
	if base == "" {
		base = a.cfg.BaseDN
	}

	return ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
		0, int(a.cfg.Timeout.Seconds()), false,
		filter,
		attrs,
		nil,
	)
}

// memberGroups returns the common names of groups whose member attribute
// contains the user's DN.
func (a *Authenticator) memberGroups(conn Conn, dn string) ([]string, error) {
	base := a.cfg.GroupSearchBase
	if base == "" {
		base = a.cfg.BaseDN
	}

	req := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
		0, int(a.cfg.Timeout.Seconds()), false,
		fmt.Sprintf("(member=%s)", ldap.EscapeFilter(dn)),
		[]string{"cn"},
		nil,
	)

	result, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("%w: group search: %v", models.ErrDirectoryUnavailable, err)
	}

	groups := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if cn := entry.GetAttributeValue("cn"); cn != "" {
			groups = append(groups, cn)
		}
	}
	return groups, nil
}

// roleFromGroups applies the fixed precedence Admin > Instructor > Student.
// Membership in none of the recognized groups defaults to Student. The order
// must never be changed.
func (a *Authenticator) roleFromGroups(groups []string) models.Role {
	for _, g := range groups {
		if strings.EqualFold(g, a.cfg.AdminsGroup) {
			return models.RoleAdmin
		}
	}
	for _, g := range groups {
		if strings.EqualFold(g, a.cfg.InstructorsGroup) {
			return models.RoleInstructor
		}
	}
	for _, g := range groups {
		if strings.EqualFold(g, a.cfg.StudentsGroup) {
			return models.RoleStudent
		}
	}
	return models.RoleStudent
}
