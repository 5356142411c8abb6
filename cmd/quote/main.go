// Command quote prices a single purchase scenario and prints the result as
// JSON.
//
//	quote -price 600000 -down 30000 -rate 7 -second 15% -second-type interest_only -second-rate 8
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
	"mortgage-engine/service"
)

func main() {
	var (
		price      = flag.String("price", "", "purchase price, e.g. 480000 or $480,000")
		down       = flag.String("down", "", "down payment; defaults to the program's share of price")
		rate       = flag.String("rate", "", "first-lien note rate in percent, e.g. 6.875")
		term       = flag.Int("term", service.DefaultTermMonths, "first-lien term in months")
		program    = flag.String("program", string(domain.ProgramConventional), "loan program: conventional (conv), fha, va (veteran), jumbo")
		units      = flag.Int("units", 1, "number of units (1-4)")
		fico       = flag.Int("fico", service.DefaultFICO, "borrower credit score")
		buydown    = flag.String("buydown", "", "temporary buydown: 3/1, 2/1 or 1/1")
		second     = flag.String("second", "", "second-lien amount in dollars or percent of price, e.g. 15%")
		secondType = flag.String("second-type", string(domain.LienInterestOnly), "second-lien type: interest_only (io) or fully_amortized (amortizing)")
		secondRate = flag.String("second-rate", "", "second-lien rate; defaults to the first-lien rate plus one point")
		catalog    = flag.String("catalog", "", "program catalog YAML replacing the built-in one")
		summary    = flag.Bool("summary", false, "print only the yearly payment table")
		escrow     = flag.Bool("escrow", false, "include escrow, estimating tax and insurance not given")
		tax        = flag.String("tax", "", "annual property tax; implies -escrow")
		insurance  = flag.String("insurance", "", "annual homeowner's insurance; implies -escrow")
	)
	flag.Parse()

	sc, err := buildScenario(*price, *down, *rate, *term, *program, *units, *fico, *buydown, *second, *secondType, *secondRate)
	if err != nil {
		fail(err)
	}
	if *escrow || *tax != "" || *insurance != "" {
		e, err := buildEscrow(*tax, *insurance)
		if err != nil {
			fail(err)
		}
		sc.Escrow = &e
	}

	programs := repository.DefaultProgramCatalog()
	if *catalog != "" {
		programs, err = repository.LoadProgramCatalogFile(*catalog)
		if err != nil {
			fail(err)
		}
	}

	svc := service.NewScenarioService(programs, nil, 0)
	res, err := svc.Evaluate(context.Background(), sc)
	if err != nil {
		fail(err)
	}

	var out any = res
	if *summary {
		out = res.YearlyPayments
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fail(err)
	}
}

func buildScenario(price, down, rate string, term int, program string, units, fico int, buydown, second, secondType, secondRate string) (domain.Scenario, error) {
	p, err := service.NormalizeAmount(price)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("-price: %w", err)
	}
	r, err := service.NormalizeRate(rate)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("-rate: %w", err)
	}

	sc := domain.Scenario{
		PurchasePrice: p,
		Program:       domain.ProgramID(program),
		AnnualRate:    r,
		TermMonths:    term,
		Units:         units,
		FICO:          fico,
	}

	if down != "" {
		d, err := service.NormalizeAmount(down)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("-down: %w", err)
		}
		sc.DownPayment = &d
	}

	plan, err := service.ParseBuydownPlan(buydown)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("-buydown: %w", err)
	}
	if !plan.IsNone() {
		sc.Buydown = &plan
	}

	if second != "" {
		amount, err := service.NormalizeAmountOrPercent(second)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("-second: %w", err)
		}
		lienType, err := service.NormalizeLienType(secondType)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("-second-type: %w", err)
		}
		terms := domain.SecondLienTerms{Amount: amount, Type: lienType}
		if secondRate != "" {
			sr, err := service.NormalizeRate(secondRate)
			if err != nil {
				return domain.Scenario{}, fmt.Errorf("-second-rate: %w", err)
			}
			terms.AnnualRate = &sr
		}
		sc.SecondLien = &terms
	}

	return sc, nil
}

func buildEscrow(tax, insurance string) (domain.Escrow, error) {
	var e domain.Escrow
	if tax != "" {
		t, err := service.NormalizeAmount(tax)
		if err != nil {
			return domain.Escrow{}, fmt.Errorf("-tax: %w", err)
		}
		e.AnnualPropertyTax = &t
	}
	if insurance != "" {
		i, err := service.NormalizeAmount(insurance)
		if err != nil {
			return domain.Escrow{}, fmt.Errorf("-insurance: %w", err)
		}
		e.AnnualInsurance = &i
	}
	return e, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "quote: %v\n", err)
	if code := domain.ErrorCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "code: %s\n", code)
	}
	os.Exit(1)
}
