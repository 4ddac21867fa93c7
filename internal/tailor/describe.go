package tailor

import (
	"fmt"
	"strings"

	"github.com/spigell/jobhunter/internal/jobs"
)

type roleTemplate struct {
	markers []string
	seeking string
	body    string
}

// Listing pages carry no full description, so one is synthesized from the
// title. The first template whose marker is a substring of the title wins.
var roleTemplates = []roleTemplate{
	{
		markers: []string{"data scientist", "data science"},
		seeking: "a talented Data Scientist",
		body: `- Strong Python programming skills
- Experience with machine learning frameworks (TensorFlow, PyTorch, scikit-learn)
- Data analysis and visualization (Tableau, Power BI, Matplotlib)
- SQL and database knowledge
- Statistical analysis and modeling
- Strong problem-solving abilities

Responsibilities:
- Build and deploy ML models
- Analyze complex datasets
- Create data visualizations and dashboards
- Collaborate with cross-functional teams
- Present insights to stakeholders`,
	},
	{
		markers: []string{"data analyst"},
		seeking: "a Data Analyst",
		body: `- Proficiency in SQL and data querying
- Data visualization tools (Tableau, Power BI)
- Python or R for data analysis
- Statistical analysis skills
- Excel and spreadsheet expertise
- Strong communication skills

Responsibilities:
- Analyze business data and trends
- Create reports and dashboards
- Identify insights and recommendations
- Support data-driven decision making`,
	},
	{
		markers: []string{"java", "software", "backend"},
		seeking: "a Software Developer",
		body: `- Strong Java programming skills
- Object-oriented programming expertise
- Spring Boot framework experience
- Database knowledge (SQL)
- REST API development
- Problem-solving abilities

Responsibilities:
- Develop backend applications
- Write clean, maintainable code
- Participate in code reviews
- Collaborate with team members
- Debug and optimize applications`,
	},
	{
		markers: []string{"machine learning", "ml engineer", "ai"},
		seeking: "an ML/AI professional",
		body: `- Strong Python skills
- Deep learning frameworks (TensorFlow, PyTorch)
- Machine learning algorithms
- Model deployment experience
- NLP or Computer Vision knowledge
- Research mindset

Responsibilities:
- Develop ML models and algorithms
- Train and optimize models
- Deploy models to production
- Research new techniques
- Collaborate on AI projects`,
	},
	{
		markers: []string{"technical writer", "documentation"},
		seeking: "a Technical Writer",
		body: `- Excellent written communication
- Technical background (CS, Engineering)
- Documentation tools expertise
- Ability to explain complex concepts
- Attention to detail
- Collaboration skills

Responsibilities:
- Create technical documentation
- Write user guides and API docs
- Maintain documentation systems
- Work with developers and product teams`,
	},
}

var genericTemplate = roleTemplate{
	seeking: "a technical professional",
	body: `- Strong programming skills (Python, Java)
- Data analysis capabilities
- Problem-solving mindset
- Collaboration abilities
- Continuous learning attitude
- Technical communication skills

Responsibilities:
- Work on technical projects
- Analyze and solve problems
- Collaborate with teams
- Contribute to product development`,
}

// DescribeJob builds a job description for a posting from its title.
func DescribeJob(job *jobs.Job) string {
	if job == nil {
		job = &jobs.Job{}
	}

	tmpl := pickTemplate(job.Title)

	return fmt.Sprintf("%s position at %s in %s.\n\nWe are seeking %s with:\n%s\n",
		job.Title, job.Company, job.Location, tmpl.seeking, tmpl.body)
}

func pickTemplate(title string) roleTemplate {
	title = strings.ToLower(title)
	for _, tmpl := range roleTemplates {
		for _, marker := range tmpl.markers {
			if strings.Contains(title, marker) {
				return tmpl
			}
		}
	}
	return genericTemplate
}
