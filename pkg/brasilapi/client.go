// Package brasilapi queries the BrasilAPI CNPJ registry for the consolidated
// company profile published by the federal revenue service.
package brasilapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/adapta-br/consulta-cnpj/pkg/provider"
)

const defaultBaseURL = "https://brasilapi.com.br/api"

// Client fetches company profiles by identifier.
type Client interface {
	Company(ctx context.Context, cnpj string) (*Company, error)
}

// Company is the registry profile for one identifier. Field tags follow the
// BrasilAPI response shape.
type Company struct {
	CNPJ             string  `json:"cnpj"`
	LegalName        string  `json:"razao_social"`
	TradeName        string  `json:"nome_fantasia"`
	FoundedOn        string  `json:"data_inicio_atividade"`
	RegistryStatus   string  `json:"descricao_situacao_cadastral"`
	MainActivityCode int     `json:"cnae_fiscal"`
	MainActivityDesc string  `json:"cnae_fiscal_descricao"`
	LegalNature      string  `json:"natureza_juridica"`
	SizeCategory     string  `json:"porte"`
	ShareCapital     float64 `json:"capital_social"`

	AreaCode1 string `json:"ddd_telefone_1"`
	Phone1    string `json:"telefone_1"`
	AreaCode2 string `json:"ddd_telefone_2"`
	Phone2    string `json:"telefone_2"`
	Email     string `json:"email"`

	StreetType   string `json:"descricao_tipo_de_logradouro"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	Complement   string `json:"complemento"`
	District     string `json:"bairro"`
	Municipality string `json:"municipio"`
	State        string `json:"uf"`
	PostalCode   string `json:"cep"`

	Partners            []Partner      `json:"qsa"`
	SecondaryActivities []ActivityCode `json:"cnaes_secundarios"`
	TaxRegimes          []RegimeRecord `json:"regime_tributario"`

	SimplesOptant bool `json:"opcao_pelo_simples"`
	MEIOptant     bool `json:"opcao_pelo_mei"`
}

// Partner is one entry in the ownership board (QSA).
type Partner struct {
	Name                  string `json:"nome_socio"`
	Qualification         string `json:"qualificacao_socio"`
	JoinedOn              string `json:"data_entrada_sociedade"`
	TaxID                 string `json:"cnpj_cpf_do_socio"`
	LegalRepName          string `json:"nome_representante_legal"`
	LegalRepTaxID         string `json:"cpf_representante_legal"`
	LegalRepQualification string `json:"qualificacao_representante_legal"`
}

// ActivityCode is a secondary economic-activity entry.
type ActivityCode struct {
	Code        int    `json:"codigo"`
	Description string `json:"descricao"`
}

// RegimeRecord is one historical tributary-form filing. Year and filing
// count may be absent in the source data, so both are pointers.
type RegimeRecord struct {
	Year        *int   `json:"ano"`
	Form        string `json:"forma_de_tributacao"`
	FilingCount *int   `json:"quantidade_de_escrituracoes"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimiter bounds outgoing request rate against the public API.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a BrasilAPI client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Company performs a single registry lookup. There is no retry here: a failed
// attempt is terminal for the query. Outcomes are classified into the shared
// provider errors; a 2xx body that cannot be parsed, or that lacks the
// mandatory cnpj field, counts as unavailable rather than not-found.
func (c *httpClient) Company(ctx context.Context, cnpj string) (*Company, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(provider.ErrUnavailable, "brasilapi: rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cnpj/v1/"+cnpj, nil)
	if err != nil {
		return nil, eris.Wrap(err, "brasilapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and connection failures are transient from the user's
		// point of view.
		return nil, eris.Wrapf(provider.ErrUnavailable, "brasilapi: %v", err)
	}
	defer resp.Body.Close()

	if outcome := provider.ClassifyStatus(resp.StatusCode); outcome != nil {
		if eris.Is(outcome, provider.ErrNotFound) {
			return nil, eris.Wrapf(provider.ErrNotFound, "brasilapi: status %d", resp.StatusCode)
		}
		// 429 and server errors alike: this provider is not retried.
		return nil, eris.Wrapf(provider.ErrUnavailable, "brasilapi: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(provider.ErrUnavailable, "brasilapi: read body: %v", err)
	}

	var company Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, eris.Wrapf(provider.ErrUnavailable, "brasilapi: parse body: %v", err)
	}
	if company.CNPJ == "" {
		return nil, eris.Wrap(provider.ErrUnavailable, "brasilapi: incomplete profile")
	}

	return &company, nil
}
