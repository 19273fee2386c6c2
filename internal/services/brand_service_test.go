package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/remote"
	"github.com/dextersy/label-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	addrs map[string][]string
	err   error
}

func (r *stubResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	addrs, ok := r.addrs[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

func newBrandService(repo BrandRepository, resolver HostResolver, runner remote.CommandRunner) *BrandService {
	log := testLogger()
	return NewBrandService(repo, resolver, runner, "edge.label-dashboard.com", log, logger.NewAuditLogger(log))
}

func stagedBrand(domain string) *models.Brand {
	return &models.Brand{
		ID:            "brand-1",
		Name:          "Test Label",
		Slug:          "test-label",
		WebsiteDomain: "test-label.label-dashboard.com",
		CustomDomain:  &domain,
	}
}

func TestGetBrandByDomain_StripsPort(t *testing.T) {
	repo := &MockBrandRepository{
		GetByDomainFunc: func(ctx context.Context, domain string) (*models.Brand, error) {
			assert.Equal(t, "shop.example.com", domain)
			return stagedBrand("shop.example.com"), nil
		},
	}

	svc := newBrandService(repo, &stubResolver{}, &MockCommandRunner{})

	brand, err := svc.GetBrandByDomain(context.Background(), "Shop.Example.COM:8443")
	require.NoError(t, err)
	assert.Equal(t, "brand-1", brand.ID)
}

func TestSetCustomDomain_RejectsInvalidNames(t *testing.T) {
	svc := newBrandService(&MockBrandRepository{}, &stubResolver{}, &MockCommandRunner{})

	for _, domain := range []string{
		"",
		"nodots",
		"has space.example.com",
		"bad;rm -rf /.example.com",
		"-leading.example.com",
		"$(whoami).example.com",
	} {
		_, err := svc.SetCustomDomain(context.Background(), "brand-1", domain)
		assert.ErrorIs(t, err, models.ErrInvalidDomain, "domain %q should be rejected", domain)
	}
}

func TestVerifyDomain_Success(t *testing.T) {
	brand := stagedBrand("shop.example.com")

	var ranCommand string
	verifiedAt := time.Time{}

	repo := &MockBrandRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Brand, error) {
			return brand, nil
		},
		MarkDomainVerifiedFunc: func(ctx context.Context, id string, at time.Time) (*models.Brand, error) {
			verifiedAt = at
			verified := *brand
			verified.DomainVerified = true
			verified.DomainVerifiedAt = &at
			return &verified, nil
		},
	}
	resolver := &stubResolver{addrs: map[string][]string{
		"shop.example.com":         {"192.0.2.10"},
		"edge.label-dashboard.com": {"192.0.2.10", "192.0.2.11"},
	}}
	runner := &MockCommandRunner{
		RunFunc: func(ctx context.Context, command string) (string, error) {
			ranCommand = command
			return "Certificate deployed", nil
		},
	}

	svc := newBrandService(repo, resolver, runner)

	result, err := svc.VerifyDomain(context.Background(), "brand-1")
	require.NoError(t, err)
	assert.True(t, result.DomainVerified)
	assert.False(t, verifiedAt.IsZero())
	assert.Contains(t, ranCommand, "-d shop.example.com")
}

func TestVerifyDomain_NotPointed(t *testing.T) {
	brand := stagedBrand("shop.example.com")

	repo := &MockBrandRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Brand, error) {
			return brand, nil
		},
	}
	resolver := &stubResolver{addrs: map[string][]string{
		"shop.example.com":         {"203.0.113.50"},
		"edge.label-dashboard.com": {"192.0.2.10"},
	}}

	provisioned := false
	runner := &MockCommandRunner{
		RunFunc: func(ctx context.Context, command string) (string, error) {
			provisioned = true
			return "", nil
		},
	}

	svc := newBrandService(repo, resolver, runner)

	_, err := svc.VerifyDomain(context.Background(), "brand-1")
	assert.ErrorIs(t, err, models.ErrDomainNotPointed)
	assert.False(t, provisioned, "provisioning must not run for an unpointed domain")
}

func TestVerifyDomain_NoStagedDomain(t *testing.T) {
	brand := stagedBrand("shop.example.com")
	brand.CustomDomain = nil

	repo := &MockBrandRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Brand, error) {
			return brand, nil
		},
	}

	svc := newBrandService(repo, &stubResolver{}, &MockCommandRunner{})

	_, err := svc.VerifyDomain(context.Background(), "brand-1")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestVerifyDomain_ProvisioningFailure(t *testing.T) {
	brand := stagedBrand("shop.example.com")

	repo := &MockBrandRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Brand, error) {
			return brand, nil
		},
		MarkDomainVerifiedFunc: func(ctx context.Context, id string, at time.Time) (*models.Brand, error) {
			t.Fatal("domain must not be marked verified when provisioning fails")
			return nil, nil
		},
	}
	resolver := &stubResolver{addrs: map[string][]string{
		"shop.example.com":         {"192.0.2.10"},
		"edge.label-dashboard.com": {"192.0.2.10"},
	}}
	runner := &MockCommandRunner{
		RunFunc: func(ctx context.Context, command string) (string, error) {
			return "certbot: error", errors.New("exit status 1")
		},
	}

	svc := newBrandService(repo, resolver, runner)

	_, err := svc.VerifyDomain(context.Background(), "brand-1")
	assert.Error(t, err)
}
