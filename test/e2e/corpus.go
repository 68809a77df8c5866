// Package e2e provides end-to-end tests with a large corpus and multiple queries.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// CorpusDocument is a document entry in the E2E corpus.
type CorpusDocument struct {
	Source  string
	Title   string
	Content string
}

// QueryTestCase defines a query and the source(s) that must appear in the
// retrieved results. At least one of ExpectedSources must be present.
type QueryTestCase struct {
	Query           string
	ExpectedSources []string
	Description     string
}

// Corpus holds documents and query test cases for E2E tests.
type Corpus struct {
	Documents    []CorpusDocument
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

// BuildCorpus returns a corpus of 100 documents with varied content and multiple query test cases.
// Each document has a unique "signature" phrase so queries can assert the correct doc is retrieved.
func BuildCorpus() *Corpus {
	docs := buildDocuments(100)
	cases := buildQueryTestCases(docs)
	return &Corpus{
		Documents:    docs,
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

func buildDocuments(n int) []CorpusDocument {
	topics := []struct {
		title   string
		content string
	}{
		{"Python Guide", "Python is a high-level programming language. Python programming language is used for web development and data science."},
		{"Kubernetes Docs", "Kubernetes is an open-source container orchestration platform. Kubernetes container orchestration automates deployment and scaling."},
		{"React Tutorial", "React is a JavaScript library. React hooks and components enable building user interfaces."},
		{"Go Language", "Go is a statically typed language. Go golang concurrency is achieved with goroutines and channels."},
		{"PostgreSQL Manual", "PostgreSQL is an advanced relational database. PostgreSQL relational database supports JSON and full-text search."},
		{"Docker Handbook", "Docker enables building and shipping applications. Docker container images are portable across environments."},
		{"Machine Learning", "Machine learning is a subset of AI. Machine learning algorithms learn patterns from data."},
		{"Neural Networks", "Neural networks are inspired by the brain. Neural network deep learning powers modern AI."},
		{"REST API Design", "REST is an architectural style for APIs. REST API endpoints use HTTP methods and status codes."},
		{"GraphQL Overview", "GraphQL is a query language for APIs. GraphQL query language lets clients request exactly what they need."},
		{"TypeScript Handbook", "TypeScript adds static types to JavaScript. TypeScript type system catches errors at compile time."},
		{"Redis Cache", "Redis is an in-memory data store. Redis in-memory cache is used for sessions and caching."},
		{"Elasticsearch Guide", "Elasticsearch is a search and analytics engine. Elasticsearch full-text search scales horizontally."},
		{"AWS Lambda", "AWS Lambda runs code without servers. AWS Lambda serverless scales automatically."},
		{"Terraform IaC", "Terraform manages cloud infrastructure. Terraform infrastructure as code is declarative."},
		{"Prometheus Metrics", "Prometheus is a monitoring system. Prometheus monitoring metrics are time-series based."},
		{"gRPC Overview", "gRPC is a high-performance RPC framework. gRPC remote procedure calls use HTTP/2 and protobuf."},
		{"OAuth 2.0", "OAuth 2.0 is an authorization framework. OAuth 2.0 authorization enables secure delegated access."},
		{"JWT Tokens", "JWT is a compact token format. JWT JSON web tokens are used for authentication."},
		{"CI/CD Pipelines", "CI/CD automates build and deployment. CI/CD continuous integration runs tests on every commit."},
		{"Git Workflow", "Git is a distributed version control system. Git version control tracks changes in source code."},
		{"SQL Basics", "SQL is used to manage relational data. SQL structured query language has SELECT INSERT UPDATE DELETE."},
		{"Microservices", "Microservices split an app into small services. Microservices architecture enables independent deployment."},
		{"Kafka Streams", "Apache Kafka is a distributed event stream platform. Apache Kafka streaming handles high throughput."},
		{"Nginx Config", "Nginx is a web server and reverse proxy. Nginx reverse proxy balances load and serves static files."},
		{"OOP Principles", "OOP organizes code around objects. Object-oriented programming uses encapsulation and inheritance."},
		{"Functional Programming", "Functional programming treats computation as functions. Functional programming paradigm avoids mutable state."},
		{"Design Patterns", "Design patterns are reusable solutions. Design patterns software includes Singleton and Factory."},
		{"API Versioning", "API versioning allows backward compatibility. API versioning strategy can use URL or headers."},
		{"Database Indexing", "Indexes speed up queries. Database indexing performance is critical for large tables."},
		{"Cryptography Basics", "Cryptography secures data. Cryptography encryption decryption uses keys and algorithms."},
		{"HTTPS TLS", "HTTPS encrypts web traffic. HTTPS TLS SSL certificates verify identity."},
		{"Load Balancing", "Load balancers distribute traffic. Load balancing high availability prevents single points of failure."},
		{"Caching Strategies", "Caching improves performance. Caching strategy cache invalidation must be designed carefully."},
		{"Event Sourcing", "Event sourcing stores state as events. Event sourcing CQRS separates read and write models."},
		{"Domain-Driven Design", "DDD focuses on the business domain. Domain-driven design DDD uses aggregates and bounded contexts."},
		{"Agile Scrum", "Agile is an iterative approach. Agile Scrum sprint typically lasts two weeks."},
		{"Unit Testing", "Unit tests verify small units of code. Unit testing mock isolates dependencies."},
		{"Integration Testing", "Integration tests verify components together. Integration testing E2E validates full flows."},
		{"Dependency Injection", "DI provides dependencies from outside. Dependency injection DI improves testability."},
		{"Semantic Search", "Semantic search uses meaning not just keywords. Semantic search embeddings capture context."},
		{"Keyword Search", "Keyword search matches terms. Keyword search full-text uses inverted indexes."},
		{"Hybrid Search", "Hybrid combines keyword and semantic. Hybrid search fusion improves recall."},
		{"Vector Database", "Vector DBs store embeddings. Vector database similarity uses cosine or dot product."},
		{"Embedding Models", "Embeddings represent text as vectors. Embedding models sentence transform text to dense vectors."},
		{"Chunking Strategy", "Chunking splits long documents. Chunking strategy overlap preserves context."},
		{"RAG Overview", "RAG combines retrieval and generation. RAG retrieval augmented grounds LLMs in documents."},
		{"LLM Fine-tuning", "Fine-tuning adapts pre-trained models. LLM fine-tuning training requires labeled data."},
		{"Prompt Engineering", "Prompts guide model behavior. Prompt engineering few-shot uses examples in the prompt."},
		{"OpenAPI Spec", "OpenAPI describes REST APIs. OpenAPI specification is machine-readable."},
		{"WebSocket Protocol", "WebSockets enable bidirectional communication. WebSocket real-time is used for chat and live updates."},
		{"Message Queue", "Message queues decouple producers and consumers. Message queue asynchronous enables scaling."},
		{"Rate Limiting", "Rate limiting protects APIs. Rate limiting throttling can be per-user or global."},
		{"Circuit Breaker", "Circuit breaker stops cascading failures. Circuit breaker resilience pattern fails fast."},
		{"Feature Flags", "Feature flags toggle functionality. Feature flags rollout allows gradual release."},
		{"A/B Testing", "A/B testing compares variants. A/B testing experiment uses statistical significance."},
		{"Logging Best Practices", "Structured logging aids debugging. Logging structured logs use JSON or key-value."},
		{"Distributed Tracing", "Tracing follows requests across services. Distributed tracing spans show latency breakdown."},
		{"Security Headers", "Security headers protect browsers. Security headers CORS control cross-origin requests."},
		{"Input Validation", "Validation rejects bad input. Input validation sanitization prevents injection."},
		{"Password Hashing", "Passwords must be hashed. Password hashing bcrypt is resistant to rainbow tables."},
		{"RBAC Permissions", "RBAC assigns permissions by role. RBAC role-based access control is common in enterprise."},
		{"Audit Logging", "Audit logs record who did what. Audit logging compliance is required in regulated industries."},
		{"Backup Strategy", "Backups protect against data loss. Backup strategy recovery includes RTO and RPO."},
		{"Disaster Recovery", "DR plans restore after outages. Disaster recovery DR involves failover and runbooks."},
		{"Scaling Horizontal", "Horizontal scaling adds more nodes. Horizontal scaling sharding partitions data."},
		{"Vertical Scaling", "Vertical scaling adds CPU or memory. Vertical scaling resources have limits."},
		{"Cost Optimization", "Cloud costs can grow quickly. Cost optimization cloud uses reserved instances and spot."},
		{"Green Computing", "Green computing reduces environmental impact. Green computing sustainability focuses on efficiency."},
		{"Accessibility", "Accessibility ensures inclusive design. Accessibility WCAG provides guidelines."},
		{"Internationalization", "i18n supports multiple languages. Internationalization i18n covers locale and formatting."},
		{"Mobile First", "Mobile first designs for small screens first. Mobile first responsive adapts to viewport."},
		{"Progressive Web App", "PWAs work offline. Progressive web app PWA uses service workers."},
		{"Server-Side Rendering", "SSR renders HTML on the server. Server-side rendering SSR improves SEO."},
		{"Static Site Generation", "SSG pre-renders pages at build time. Static site generation SSG is fast and cheap."},
		{"Edge Computing", "Edge runs code close to users. Edge computing latency reduces round-trip time."},
		{"Serverless Cold Start", "Cold start is the first request delay. Serverless cold start can be mitigated with provisioned concurrency."},
		{"Graph Database", "Graph DBs store nodes and edges. Graph database Neo4j is used for relationships."},
		{"Time-Series DB", "Time-series DBs optimize for metrics. Time-series database stores values by timestamp."},
		{"Document Store", "Document stores use flexible schemas. Document store MongoDB stores BSON documents."},
		{"Key-Value Store", "Key-value stores are simple and fast. Key-value store is used for caching and sessions."},
		{"CAP Theorem", "CAP says you cannot have all three. CAP theorem consistency availability partition tolerance."},
		{"ACID Transactions", "ACID guarantees reliability. ACID transactions database ensure atomicity and isolation."},
		{"Eventually Consistent", "Eventually consistent systems converge. Eventually consistent is used in distributed systems."},
		{"CRDT Overview", "CRDTs enable conflict-free replication. CRDT conflict-free replicated data types merge without coordination."},
		{"Zero Trust", "Zero trust assumes breach. Zero trust security verifies every request."},
		{"Defense in Depth", "Multiple layers improve security. Defense in depth layers include network app and data."},
		{"Penetration Testing", "Pentest simulates attacks. Penetration testing pentest finds vulnerabilities."},
		{"Code Review", "Code review catches bugs early. Code review pull request is a best practice."},
		{"Documentation", "Good documentation helps adoption. Documentation API docs should be up to date."},
		{"Onboarding Guide", "Onboarding helps new team members. Onboarding guide new hires covers setup and culture."},
		{"Incident Response", "Incidents need a clear process. Incident response runbook defines steps."},
		{"Post-Mortem", "Post-mortems learn from incidents. Post-mortem blameless focuses on systems not people."},
		{"SLO and SLI", "SLOs define target reliability. SLO SLI reliability uses error budget."},
		{"Chaos Engineering", "Chaos engineering tests resilience. Chaos engineering resilience uses fault injection."},
		{"Blue-Green Deployment", "Blue-green reduces deployment risk. Blue-green deployment keeps two environments."},
		{"Canary Release", "Canary rolls out to a subset. Canary release gradual reduces blast radius."},
		{"Feature Branch", "Feature branches isolate work. Feature branch workflow merges via PR."},
		{"Trunk-Based Development", "Trunk-based keeps main always releasable. Trunk-based development uses short-lived branches."},
		{"Refactoring", "Refactoring improves structure. Refactoring code quality preserves behavior."},
	}

	out := make([]CorpusDocument, 0, n)
	for i := 0; i < n && i < len(topics); i++ {
		t := topics[i]
		out = append(out, CorpusDocument{
			Source:  fmt.Sprintf("corpus/e2e-doc-%03d.md", i+1),
			Title:   t.title,
			Content: t.content,
		})
	}
	// If we need more than len(topics), duplicate with different sources
	for len(out) < n {
		i := len(out)
		t := topics[i%len(topics)]
		out = append(out, CorpusDocument{
			Source:  fmt.Sprintf("corpus/e2e-doc-%03d.md", i+1),
			Title:   fmt.Sprintf("%s (%d)", t.title, i+1),
			Content: t.content,
		})
	}
	return out
}

func buildQueryTestCases(docs []CorpusDocument) []QueryTestCase {
	if len(docs) == 0 {
		return nil
	}
	// Each query targets a phrase that appears in exactly one doc's content.
	phrases := []string{
		"Python programming", "Kubernetes container", "React hooks", "Go golang", "PostgreSQL relational",
		"Docker container", "machine learning", "neural network", "REST API", "GraphQL query",
		"TypeScript type", "Redis in-memory", "Elasticsearch full-text", "AWS Lambda", "Terraform infrastructure",
		"Prometheus monitoring", "gRPC remote", "OAuth 2.0", "JWT JSON", "CI/CD continuous",
		"Git version", "SQL structured", "microservices architecture", "Apache Kafka", "Nginx reverse",
		"object-oriented", "functional programming", "design patterns", "API versioning", "database indexing",
		"cryptography encryption", "HTTPS TLS", "load balancing", "caching strategy", "event sourcing",
		"domain-driven design", "Agile Scrum", "unit testing", "integration testing", "dependency injection",
		"semantic search", "keyword search", "hybrid search", "vector database", "embedding models",
		"chunking strategy", "RAG retrieval", "LLM fine-tuning", "prompt engineering", "OpenAPI specification",
	}
	var cases []QueryTestCase
	used := make(map[string]bool)
	for _, p := range phrases {
		// Find first doc that contains this phrase (in title or content)
		for _, d := range docs {
			if containsPhrase(d, p) && !used[d.Source] {
				cases = append(cases, QueryTestCase{
					Query:           p,
					ExpectedSources: []string{d.Source},
					Description:     fmt.Sprintf("query %q should retrieve %s", p, d.Source),
				})
				used[d.Source] = true
				break
			}
		}
	}
	return cases
}

func containsPhrase(d CorpusDocument, phrase string) bool {
	lower := strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(d.Title), lower) || strings.Contains(strings.ToLower(d.Content), lower)
}

// ToDocumentInputs converts the corpus documents to models.DocumentInput for ingestion.
// Titles become a leading heading line so they are retrievable text.
func (c *Corpus) ToDocumentInputs() []*models.DocumentInput {
	out := make([]*models.DocumentInput, len(c.Documents))
	for i := range c.Documents {
		d := &c.Documents[i]
		out[i] = &models.DocumentInput{
			Source:  d.Source,
			Content: fmt.Sprintf("# %s\n\n%s", d.Title, d.Content),
		}
	}
	return out
}
