// Package aicatalog 是一个内嵌在商品目录应用中的个性化推荐引擎。
//
// 设计要点：
// - Pipeline-first: 每次用户交互同步跑一遍 Node 链（Recall → Filter → Rank → ReRank）
// - Labels-first: 解释标签全链路透传与标准化 merge，支持 explain / 观测
// - 内容矩阵一次构建、之后只读；会话反馈是唯一的可变状态，作为显式参数传入
//
// 快速上手见 engine 包；各阶段 Node 可单独组合使用。
package aicatalog

import "github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
