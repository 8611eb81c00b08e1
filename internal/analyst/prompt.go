// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyst

import "text/template"

// summaryPrompt asks for a structured JSON review of a paper. The reviewer
// persona and field list follow the product's recommender-systems focus.
const summaryPrompt = `你是一名资深推荐算法工程师。请阅读这篇论文，并输出 JSON 格式的总结，字段：
1. 一句话核心创新点 (one_liner)
2. 解决的问题 (problem)
3. 核心方法/架构 (method)
4. 实验结论 (results)
5. 工业界应用价值：评分 1-5 及理由 (industry_value)
仅返回 JSON。`

// translatePromptTmpl renders the EN→ZH abstract translation request.
var translatePromptTmpl = template.Must(template.New("translate").Parse(
	`Translate the following arXiv paper abstract from English to Chinese.
Preserve named entities and keep it concise.

Title: {{.Title}}
Abstract: {{.Summary}}`))

// votePromptTmpl renders the industry-affiliation vote request. The model
// must answer yes or no.
var votePromptTmpl = template.Must(template.New("vote").Parse(
	`你是审稿人，请判断作者单位是否包含以下公司之一：
{{.Companies}}
论文：
Title: {{.Title}}
Authors: {{.Authors}}
Abstract: {{.Summary}}
回复 yes 或 no。`))
