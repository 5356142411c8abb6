package repository

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"mortgage-engine/domain"
)

//go:embed programs.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Programs []domain.LoanProgram `yaml:"programs"`
}

// ProgramCatalog is an in-memory, read-only ProgramRepository.
type ProgramCatalog struct {
	order   []domain.ProgramID
	byID    map[domain.ProgramID]domain.LoanProgram
	aliases map[domain.ProgramID]domain.ProgramID
}

// NewProgramCatalog builds a catalog from already decoded programs.
func NewProgramCatalog(programs []domain.LoanProgram) (*ProgramCatalog, error) {
	c := &ProgramCatalog{
		byID:    make(map[domain.ProgramID]domain.LoanProgram, len(programs)),
		aliases: make(map[domain.ProgramID]domain.ProgramID),
	}
	for _, p := range programs {
		if err := checkProgram(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate program %q", p.ID)
		}
		c.byID[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	for _, p := range programs {
		for _, a := range p.Aliases {
			alias := programKey(domain.ProgramID(a))
			if _, taken := c.byID[alias]; taken {
				return nil, fmt.Errorf("program %q: alias %q is another program's id", p.ID, a)
			}
			if owner, taken := c.aliases[alias]; taken {
				return nil, fmt.Errorf("program %q: alias %q already belongs to %q", p.ID, a, owner)
			}
			c.aliases[alias] = p.ID
		}
	}
	return c, nil
}

// ParseProgramCatalog decodes a YAML catalog document.
func ParseProgramCatalog(data []byte) (*ProgramCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode program catalog: %w", err)
	}
	if len(f.Programs) == 0 {
		return nil, fmt.Errorf("program catalog has no programs")
	}
	return NewProgramCatalog(f.Programs)
}

// LoadProgramCatalogFile reads a catalog from disk.
func LoadProgramCatalogFile(path string) (*ProgramCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program catalog: %w", err)
	}
	return ParseProgramCatalog(data)
}

// DefaultProgramCatalog returns the catalog compiled into the binary.
func DefaultProgramCatalog() *ProgramCatalog {
	c, err := ParseProgramCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded program catalog: %v", err))
	}
	return c
}

// FindByID returns the program or ErrUnknownProgram. Lookup ignores case and
// accepts the program's aliases.
func (c *ProgramCatalog) FindByID(id domain.ProgramID) (domain.LoanProgram, error) {
	key := programKey(id)
	if canonical, ok := c.aliases[key]; ok {
		key = canonical
	}
	p, ok := c.byID[key]
	if !ok {
		return domain.LoanProgram{}, fmt.Errorf("%w: %q", domain.ErrUnknownProgram, id)
	}
	return p, nil
}

// List returns every program in catalog order.
func (c *ProgramCatalog) List() []domain.LoanProgram {
	out := make([]domain.LoanProgram, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func programKey(id domain.ProgramID) domain.ProgramID {
	return domain.ProgramID(strings.ToLower(strings.TrimSpace(string(id))))
}

func checkProgram(p domain.LoanProgram) error {
	if p.ID == "" {
		return fmt.Errorf("program without id")
	}
	if !p.MaxLTV.IsPositive() {
		return fmt.Errorf("program %q: max_ltv must be positive", p.ID)
	}
	if p.DefaultDownPayment.IsNegative() || !p.DefaultDownPayment.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("program %q: default_down_payment must be in [0, 1)", p.ID)
	}
	if len(p.LoanLimits) > 4 {
		return fmt.Errorf("program %q: loan_limits covers at most 4 units", p.ID)
	}
	switch p.MortgageInsurance.Kind {
	case domain.MINone:
	case domain.MITiered:
		if len(p.MortgageInsurance.Tiers) == 0 {
			return fmt.Errorf("program %q: tiered insurance without tiers", p.ID)
		}
	case domain.MIAnnualFHA:
		if len(p.MortgageInsurance.FHATable) == 0 {
			return fmt.Errorf("program %q: annual premium without a rate table", p.ID)
		}
	default:
		return fmt.Errorf("program %q: unknown insurance kind %q", p.ID, p.MortgageInsurance.Kind)
	}
	return nil
}
