// Package steps defines the build steps, their categories and the order constraints between them.
package steps

import "fmt"

// Step names, in execution order.
const (
	PrepareOutput   = "prepare-output"
	LoadManifest    = "load-manifest"
	LoadStaticData  = "load-static-data"
	ResolveContent  = "resolve-content"
	AssembleContext = "assemble-context"
	RenderTemplate  = "render-template"
	WriteOutput     = "write-output"
	PrintPDF        = "print-pdf"
)

// sequence is the preferred order among steps that are ready at the same time.
var sequence = []string{
	PrepareOutput, LoadManifest, LoadStaticData, ResolveContent,
	AssembleContext, RenderTemplate, WriteOutput, PrintPDF,
}

// Step categories
const (
	CategorySetup    = "setup"
	CategoryLoad     = "load"
	CategoryResolve  = "resolve"
	CategoryRender   = "render"
	CategoryArtifact = "artifact"
)

// StepDefinition defines metadata for a build step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     bool
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	PrepareOutput: {
		Name:     PrepareOutput,
		Category: CategorySetup,
	},
	LoadManifest: {
		Name:     LoadManifest,
		Category: CategoryLoad,
	},
	LoadStaticData: {
		Name:         LoadStaticData,
		Category:     CategoryLoad,
		Dependencies: []string{LoadManifest},
	},
	ResolveContent: {
		Name:         ResolveContent,
		Category:     CategoryResolve,
		Dependencies: []string{LoadManifest},
	},
	AssembleContext: {
		Name:         AssembleContext,
		Category:     CategoryResolve,
		Dependencies: []string{LoadStaticData, ResolveContent},
	},
	RenderTemplate: {
		Name:         RenderTemplate,
		Category:     CategoryRender,
		Dependencies: []string{AssembleContext},
	},
	WriteOutput: {
		Name:         WriteOutput,
		Category:     CategoryArtifact,
		Dependencies: []string{PrepareOutput, RenderTemplate},
	},
	PrintPDF: {
		Name:         PrintPDF,
		Category:     CategoryArtifact,
		Dependencies: []string{WriteOutput},
		Optional:     true,
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s has unmet dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName has completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}
	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// Order returns the step names in a dependency-respecting order, preferring the
// declared sequence among steps that are ready together. Optional steps are included
// only when withOptional is set.
func Order(withOptional bool) []string {
	done := map[string]bool{}
	var order []string
	for {
		next := ""
		for _, name := range sequence {
			if done[name] || (StepRegistry[name].Optional && !withOptional) {
				continue
			}
			if ValidateDependencies(done, name) == nil {
				next = name
				break
			}
		}
		if next == "" {
			return order
		}
		done[next] = true
		order = append(order, next)
	}
}
