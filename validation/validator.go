package validation

import (
	"log/slog"

	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
)

// Validator runs a rule suite over a dataset.
type Validator struct {
	rules []Rule
}

// New creates a validator with the given rules.
func New(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// NewTelco creates a validator with the telco churn rule suite.
func NewTelco() *Validator {
	return New(TelcoRules()...)
}

// Validate runs every rule and returns whether all passed plus the IDs of
// the rules that failed, in rule order. Failures are reported, never
// raised: the pipeline caller decides whether to proceed, abort, or log.
// The encoder must not run on a dataset that failed validation.
func (v *Validator) Validate(ds *dataset.Dataset) (bool, []string) {
	var failed []string
	for _, r := range v.rules {
		if err := r.Check(ds); err != nil {
			failed = append(failed, r.ID())
			slog.Debug("validation rule failed",
				log.StageKey, "validate",
				"rule", r.ID(),
				log.ErrAttr(err),
			)
		}
	}

	passed := len(v.rules) - len(failed)
	if len(failed) == 0 {
		slog.Info("data validation passed",
			log.StageKey, "validate",
			"checks_passed", passed,
		)
	} else {
		slog.Warn("data validation failed",
			log.StageKey, "validate",
			"checks_passed", passed,
			"checks_failed", len(failed),
			"failed_rules", failed,
		)
	}
	return len(failed) == 0, failed
}

// TelcoRules returns the churn dataset rule suite: required identifier,
// demographic, service, and financial columns; fixed categorical value
// sets; and numeric business ranges.
func TelcoRules() []Rule {
	return []Rule{
		// Schema: essential columns.
		ColumnExists{Column: "customerID"},
		ColumnNotNull{Column: "customerID"},
		ColumnExists{Column: "gender"},
		ColumnExists{Column: "Partner"},
		ColumnExists{Column: "Dependents"},
		ColumnExists{Column: "PhoneService"},
		ColumnExists{Column: "InternetService"},
		ColumnExists{Column: "Contract"},
		ColumnExists{Column: "tenure"},
		ColumnExists{Column: "MonthlyCharges"},
		ColumnExists{Column: "TotalCharges"},

		// Business logic: fixed categorical vocabularies.
		ValuesInSet{Column: "gender", Allowed: []string{"Male", "Female"}},
		ValuesInSet{Column: "Partner", Allowed: []string{"Yes", "No"}},
		ValuesInSet{Column: "Dependents", Allowed: []string{"Yes", "No"}},
		ValuesInSet{Column: "PhoneService", Allowed: []string{"Yes", "No"}},
		ValuesInSet{Column: "Contract", Allowed: []string{"Month-to-month", "One year", "Two year"}},
		ValuesInSet{Column: "InternetService", Allowed: []string{"DSL", "Fiber optic", "No"}},

		// Numeric business ranges. Tenure is capped at ten years of months;
		// monthly charges at the top of the plan range.
		ValuesBetween{Column: "tenure", Min: 0, Max: 120},
		ValuesBetween{Column: "MonthlyCharges", Min: 0, Max: 200},
		ColumnNotNull{Column: "tenure"},
		ColumnNotNull{Column: "MonthlyCharges"},
	}
}
