// Package validator runs small declarative rules over input values and
// collects every failure into ValidationErrors.
//
//	err := validator.Apply(
//	    validator.RequiredString("name", name),
//	    validator.ValidEmail("email", email),
//	)
//	if errors.Is(err, validator.ErrValidationFailed) {
//	    fields := validator.ExtractValidationErrors(err).Fields()
//	}
package validator
