package navigation

func leaf(title, href string) Item { return Item{Title: title, Href: href} }

// Default returns the built-in sidebar.
func Default() *Navigation {
	return New([]Item{
		{Title: "Introduction", Href: "/docs/introduction", Children: []Item{
			leaf("What is OpenMemory", "/docs/introduction"),
			leaf("Standalone vs Backend", "/docs/standalone"),
		}},
		{Title: "Getting Started", Href: "/docs/getting-started", Children: []Item{
			leaf("Install", "/docs/installation"),
			leaf("Quick Start (Standalone)", "/docs/quick-start"),
			leaf("Quick Start (Backend)", "/docs/quick-start-backend"),
		}},
		{Title: "SDKs", Href: "/docs/sdks", Children: []Item{
			leaf("JavaScript", "/docs/sdks/javascript"),
			leaf("Python", "/docs/sdks/python"),
		}},
		{Title: "API Reference", Href: "/docs/api", Children: []Item{
			leaf("API Routes", "/docs/api/routes"),
			leaf("Add Memory", "/docs/api/add-memory"),
			leaf("Query Memory", "/docs/api/query"),
		}},
		{Title: "Core Concepts", Href: "/docs/concepts", Children: []Item{
			leaf("Sectors", "/docs/concepts/sectors"),
			leaf("Decay", "/docs/concepts/decay"),
			leaf("Salience", "/docs/concepts/salience"),
			leaf("Associations", "/docs/concepts/associations"),
			leaf("Temporal Graph", "/docs/concepts/temporal-graph"),
		}},
		{Title: "Advanced", Href: "/docs/advanced", Children: []Item{
			leaf("Embeddings", "/docs/advanced/embedding-modes"),
			leaf("Ingestion", "/docs/advanced/ingestion"),
			leaf("MCP Server", "/docs/integrations/mcp"),
			leaf("LangGraph Mode", "/docs/advanced/langgraph"),
		}},
		{Title: "Examples", Href: "/docs/examples", Children: []Item{
			leaf("Agents", "/docs/examples/agents"),
			leaf("Claude Desktop", "/docs/examples/claude"),
			leaf("Python Chatbot", "/docs/examples/python-chatbot"),
			leaf("Node.js Assistant", "/docs/examples/nodejs-assistant"),
		}},
		{Title: "Deployment", Href: "/docs/deployment", Children: []Item{
			leaf("Backend Setup", "/docs/deployment/backend"),
			leaf("Docker", "/docs/deployment/docker"),
			leaf("Vercel / Railway", "/docs/deployment/cloud"),
		}},
		{Title: "Migration", Href: "/docs/migration", Children: []Item{
			leaf("From Mem0", "/docs/migration/mem0"),
			leaf("From Supermemory", "/docs/migration/supermemory"),
			leaf("From Zep", "/docs/migration/zep"),
		}},
	})
}
