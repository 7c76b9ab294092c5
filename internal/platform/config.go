package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/litbook/pkg/adapters/table"
	"github.com/aretw0/litbook/pkg/classify"
	"github.com/aretw0/litbook/pkg/pipeline"
	"github.com/aretw0/litbook/pkg/storage"
)

// ConfigFile is the configuration file looked up at the book root.
const ConfigFile = "litbook.yaml"

// Config is the content of litbook.yaml. Layout, taxonomy and storage are
// inlined at the top level of the file.
type Config struct {
	// DataDir holds the CSV exports, relative to the book root.
	DataDir         string      `yaml:"data_dir"`
	Files           table.Files `yaml:"files"`
	pipeline.Config `yaml:",inline"`
}

// DefaultConfig is the layout and taxonomy of the published review.
func DefaultConfig() Config {
	return Config{
		DataDir: "workingdocs/ai-in-social-protection-review/data",
		Files:   table.DefaultFiles(),
		Config: pipeline.Config{
			Layout: pipeline.DefaultLayout(),
			Taxonomy: pipeline.Taxonomy{
				DocumentClasses: defaultDocumentClasses(),
				OtherDocuments: classify.DocumentClass{
					Key:     "other-documents",
					Title:   "Other Documents",
					Summary: "Additional reference materials",
				},
				Categories:    defaultCategories(),
				OtherCategory: classify.Mapping{Title: "Other", Folder: "other"},
				Subcategories: defaultSubcategories(),
			},
			Storage: storage.Config{
				Bucket:      "devmarketimpact",
				Region:      "eu-north-1",
				Prefix:      "ai-social-protection/documents",
				MappingFile: "workingdocs/s3_url_mapping.json",
				Objects:     defaultObjects(),
			},
		},
	}
}

func defaultDocumentClasses() []classify.DocumentClass {
	return []classify.DocumentClass{
		{
			Key:      "peer-reviewed-research",
			Title:    "Peer-Reviewed Research",
			Summary:  "Academic papers and research studies with rigorous peer review",
			Types:    []string{"Research Paper", "Academic Report"},
			Evidence: []string{"Peer-reviewed Empirical"},
		},
		{
			Key:      "policy-institutional-reports",
			Title:    "Policy & Institutional Reports",
			Summary:  "Reports from international organizations, development agencies, and policy institutions",
			Types:    []string{"Policy Report", "Institutional Report", "Workshop Report", "Case Study"},
			Evidence: []string{"Policy Report", "Donor Evaluation"},
		},
		{
			Key:      "government-documents",
			Title:    "Government Documents",
			Summary:  "Official government reports, websites, and press releases",
			Types:    []string{"Government Report", "Government Website", "Press Release"},
			Evidence: []string{"Government Report"},
		},
		{
			Key:      "media-news",
			Title:    "Media & News Articles",
			Summary:  "News articles and blog posts documenting AI implementations",
			Types:    []string{"News Article", "Blog Post"},
			Evidence: []string{"Media Report"},
		},
	}
}

func defaultCategories() []classify.Mapping {
	return []classify.Mapping{
		{Title: "1. AI-enabled Targeting & Eligibility Assessment", Folder: "1-ai-enabled-targeting-eligibility-assessment"},
		{Title: "2. AI-enabled Fraud Detection & Predictive Risk Management", Folder: "2-ai-enabled-fraud-detection-predictive-risk-management"},
		{Title: "3. AI-enabled Communication & Beneficiary Engagement", Folder: "3-ai-enabled-communication-beneficiary-engagement"},
		{Title: "4. AI-enabled Anticipatory Action & Predictive Crisis Response", Folder: "4-ai-enabled-anticipatory-action-predictive-crisis-response"},
		{Title: "5. AI-enabled Program Administration & Process Optimization", Folder: "5-ai-enabled-program-administration-process-optimization"},
		{Title: "6. AI-enabled Job Matching & Career Guidance Systems", Folder: "6-ai-enabled-job-matching-career-guidance"},
		{Title: "7. AI-enabled Policy Design, Simulation & Evaluation", Folder: "7-ai-enabled-policy-design-simulation-evaluation"},
	}
}

// Several subcategories reuse folders created for an earlier revision of the
// taxonomy, so the folder names do not always match the titles.
func defaultSubcategories() []classify.Mapping {
	return []classify.Mapping{
		{Title: "1a. Poverty Mapping & Geographic Targeting", Folder: "1a-poverty-vulnerability-mapping-geographic"},
		{Title: "1b. Eligibility Scoring & Prediction (Individual/HH)", Folder: "1b-eligibility-scoring-prediction-individual-hh"},
		{Title: "1c. Multi-stage Targeting Systems", Folder: "1c-biometric-identity-verification"},
		{Title: "1d. Proactive Eligibility & Linkage Identification", Folder: "1d-proactive-eligibility-linkage-identification"},

		{Title: "2a. Document Authentication & Verification", Folder: "2a-financial-integrity-fraud-detection"},
		{Title: "2b. Identity Verification & Biometrics", Folder: "2b-social-risk-prediction-early-intervention"},
		{Title: "2c. Compliance & Conditionality Monitoring", Folder: "2c-compliance-conditionality-monitoring"},

		{Title: "3a. Chatbots & Multilingual Assistants", Folder: "3a-conversational-ai-chatbots"},
		{Title: "3b. SMS Targeting & Outreach", Folder: "3b-automated-translation-services"},
		{Title: "3c. Geographic Outreach Optimization", Folder: "3c-sentiment-feedback-analysis"},

		{Title: "4a. Early Warning Systems", Folder: "4a-climate-environmental-forecasting"},
		{Title: "4b. Vulnerability Indices", Folder: "4b-displacement-conflict-forecasting"},

		{Title: "5a. Claims Processing Automation", Folder: "5a-document-correspondence-automation"},
		{Title: "5b. User Experience Enhancement", Folder: "5b-workforce-augmentation-productivity-tools"},
		{Title: "5c. Speech Recognition & Documentation", Folder: "5c-operational-resource-forecasting"},
		{Title: "5d. Caseworker Decision Support", Folder: "5d-caseworker-decision-support"},

		{Title: "6a. Automated Job Posting & Matching", Folder: "6a-jobseeker-profiling-risk-assessment"},
		{Title: "6b. Personalized Career Guidance", Folder: "6b-skills-based-job-matching-recommendation"},
		{Title: "6c. Skills Forecasting & Labor Market Intelligence", Folder: "6c-skills-forecasting-labor-market-intelligence"},

		{Title: "7a. Data Analytics for Policy Insights", Folder: "7a-policy-program-simulation"},
		{Title: "7b. Impact Evaluation & Monitoring", Folder: "7b-impact-evaluation-monitoring"},
		{Title: "7c. Policy Framework Assessment", Folder: "7c-policy-framework-assessment"},
		{Title: "7d. Real-time Monitoring & Adaptive Management", Folder: "7d-real-time-monitoring-adaptive-management"},
	}
}

func defaultObjects() map[string]string {
	return map[string]string{
		"D001": "D001_Face_identification_Ehsaas.pdf",
		"D002": "D002_Social_Registries_Pakistan.pdf",
		"D003": "D003_AI_social_protection_DCI.pdf",
		"D004": "D004_Social_Registries_ASP_Rome.pdf",
		"D005": "D005_Flood_susceptibility_Pakistan.pdf",
		"D006": "D006_Flood_Mapping_Policy_Design.pdf",
		"D007": "D007_Pakistan_Ethical_AI.pdf",
		"D008": "D008_NADRA_Face_Recognition.pdf",
		"D009": "D009_Pakistan_BISP_Budget.pdf",
		"D011": "D011_Big_Data_Nigeria_Poor.pdf",
		"D012": "D012_Nigeria_AI_Identify_Poor.pdf",
		"D013": "D013_Scaling_Social_Assistance.pdf",
		"D014": "D014_Alerta_Infancia_Chile.pdf",
		"D015": "D015_Sistema_Alerta_Ninez.pdf",
		"D016": "D016_DDHH_UDP_Chile.pdf",
		"D017": "D017_German_Digital_Day_BA.pdf",
		"D018": "D018_Tina_Argentina.pdf",
		"D019": "D019_DWP_Age_of_AI.pdf",
	}
}

// LoadConfig reads a configuration file over DefaultConfig. Unknown keys are
// rejected. Lists in the file replace the default lists entirely, storage
// objects are added to the default ones.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks the paths and, when a bucket or objects are configured,
// the storage addressing.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DataDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.Files, validation.By(func(any) error {
			return validation.ValidateStruct(&c.Files,
				validation.Field(&c.Files.Documents, validation.Required, validation.By(fileName)),
				validation.Field(&c.Files.UseCases, validation.Required, validation.By(fileName)),
				validation.Field(&c.Files.Links, validation.Required, validation.By(fileName)),
			)
		})),
	)
	if err != nil {
		return err
	}

	layout := c.Layout
	if err := validation.ValidateStruct(&layout,
		validation.Field(&layout.Documents, validation.Required, validation.By(fileName)),
		validation.Field(&layout.UseCases, validation.Required, validation.By(fileName)),
	); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	st := c.Storage
	if err := validation.ValidateStruct(&st,
		validation.Field(&st.MappingFile, validation.By(relativePath)),
	); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if st.Bucket != "" || len(st.Objects) > 0 {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

// relativePath accepts empty strings and slash separated paths that stay
// below the book root.
func relativePath(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return validation.NewError("config.path_absolute", "must be relative to the book root")
	}
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg == ".." {
			return validation.NewError("config.path_escapes", "must stay below the book root")
		}
	}
	return nil
}

// fileName accepts a single path segment.
func fileName(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return validation.NewError("config.name_invalid", "must be a single file or folder name")
	}
	return nil
}
