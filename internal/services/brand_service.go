package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/remote"
	"github.com/dextersy/label-dashboard/pkg/logger"
)

// Hostname labels per RFC 1123, at least two labels, no trailing dot. Also
// the guard that keeps a stored domain safe to splice into a remote command.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

// BrandRepository defines the interface for brand data operations
type BrandRepository interface {
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	GetByDomain(ctx context.Context, domain string) (*models.Brand, error)
	SetCustomDomain(ctx context.Context, id, domain string) (*models.Brand, error)
	MarkDomainVerified(ctx context.Context, id string, at time.Time) (*models.Brand, error)
}

// HostResolver is the DNS surface the verification step needs. Satisfied by
// *net.Resolver.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// BrandService resolves brands by domain and drives custom domain
// verification and SSL provisioning.
type BrandService struct {
	repo        BrandRepository
	resolver    HostResolver
	runner      remote.CommandRunner
	targetHost  string
	logger      *slog.Logger
	auditLogger *logger.AuditLogger
}

// NewBrandService creates a new BrandService
func NewBrandService(
	repo BrandRepository,
	resolver HostResolver,
	runner remote.CommandRunner,
	targetHost string,
	log *slog.Logger,
	auditLogger *logger.AuditLogger,
) *BrandService {
	return &BrandService{
		repo:        repo,
		resolver:    resolver,
		runner:      runner,
		targetHost:  targetHost,
		logger:      log,
		auditLogger: auditLogger,
	}
}

// GetBrand fetches one brand by id
func (s *BrandService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBrandByDomain resolves the brand serving a request host. The host may
// carry a port, which is ignored.
func (s *BrandService) GetBrandByDomain(ctx context.Context, host string) (*models.Brand, error) {
	domain := normalizeDomain(host)
	if domain == "" {
		return nil, models.ErrBadRequest
	}
	return s.repo.GetByDomain(ctx, domain)
}

// SetCustomDomain stages a custom domain on a brand. Verification state is
// reset; the domain serves no traffic until VerifyDomain succeeds.
func (s *BrandService) SetCustomDomain(ctx context.Context, brandID, domain string) (*models.Brand, error) {
	domain = normalizeDomain(domain)
	if !domainPattern.MatchString(domain) {
		return nil, models.ErrInvalidDomain
	}

	brand, err := s.repo.SetCustomDomain(ctx, brandID, domain)
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogDomainAction("custom_domain_staged", brandID, domain, true)

	return brand, nil
}

// VerifyDomain checks that the brand's staged custom domain resolves to the
// serving host, then provisions an SSL certificate for it over SSH and marks
// the domain verified.
func (s *BrandService) VerifyDomain(ctx context.Context, brandID string) (*models.Brand, error) {
	brand, err := s.repo.GetByID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if brand.CustomDomain == nil || *brand.CustomDomain == "" {
		return nil, fmt.Errorf("%w: no custom domain staged", models.ErrBadRequest)
	}

	domain := *brand.CustomDomain
	if !domainPattern.MatchString(domain) {
		return nil, models.ErrInvalidDomain
	}

	if err := s.checkDNS(ctx, domain); err != nil {
		s.auditLogger.LogDomainAction("domain_verification", brandID, domain, false)
		return nil, err
	}

	command := fmt.Sprintf("sudo certbot --nginx -d %s --non-interactive --agree-tos", domain)
	output, err := s.runner.Run(ctx, command)
	if err != nil {
		s.logger.Error("ssl provisioning failed",
			slog.String("brand_id", brandID),
			slog.String("domain", domain),
			slog.String("output", output),
			slog.Any("error", err))
		s.auditLogger.LogDomainAction("ssl_provisioning", brandID, domain, false)
		return nil, fmt.Errorf("ssl provisioning failed: %w", err)
	}

	verified, err := s.repo.MarkDomainVerified(ctx, brandID, time.Now())
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogDomainAction("domain_verified", brandID, domain, true)

	return verified, nil
}

// checkDNS confirms the domain resolves to at least one address the serving
// host also resolves to.
func (s *BrandService) checkDNS(ctx context.Context, domain string) error {
	domainAddrs, err := s.resolver.LookupHost(ctx, domain)
	if err != nil {
		return fmt.Errorf("%w: %s", models.ErrDomainNotPointed, err.Error())
	}

	targetAddrs, err := s.resolver.LookupHost(ctx, s.targetHost)
	if err != nil {
		return fmt.Errorf("failed to resolve serving host %s: %w", s.targetHost, err)
	}

	target := make(map[string]struct{}, len(targetAddrs))
	for _, addr := range targetAddrs {
		target[addr] = struct{}{}
	}
	for _, addr := range domainAddrs {
		if _, ok := target[addr]; ok {
			return nil
		}
	}

	return models.ErrDomainNotPointed
}

func normalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
