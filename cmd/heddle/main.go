// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// heddle is a Model Context Protocol server exposing a lakehouse data
// catalog to LLM agents: catalog/schema/table browsing as resources and
// tools, SQL execution, natural-language query generation, and chart
// rendering.
//
// It speaks MCP over stdio (JSON-RPC, newline framed) or HTTP/SSE, and
// connects to either a Databricks workspace (Unity Catalog) or a plain SQL
// database.
//
// Claude Desktop configuration (claude_desktop_config.json):
//
//	{
//	  "mcpServers": {
//	    "heddle": {
//	      "command": "/path/to/heddle",
//	      "args": ["serve"]
//	    }
//	  }
//	}
package main

func main() {
	Execute()
}
